// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package auth implements the session token layer: HS256-signed JWTs
// carrying identity and role, bcrypt password hashing, and the HTTP
// middleware that guards protected routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNotConfigured is returned when no signing secret is set. Callers
	// map it to a 500 naming the missing capability.
	ErrNotConfigured = errors.New("JWT secret not configured")

	// ErrInvalidToken covers every verification failure: bad signature,
	// expiry, malformed token. Verification fails closed; callers treat
	// it as absent identity.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the JWT payload: identity plus role, with the registered
// issued-at and expiry claims.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens. A zero secret is legal
// at construction time; Issue and Verify report ErrNotConfigured per call
// so a missing secret degrades to per-request 500s, not a startup failure.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service. expiry is the token lifetime
// from issuance.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Configured reports whether a signing secret is present.
func (s *TokenService) Configured() bool {
	return len(s.secret) > 0
}

// Issue creates a signed token for the given identity.
func (s *TokenService) Issue(userID, username, role string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning its claims. Any failure
// (signature, expiry, malformed input, unexpected signing method) yields
// ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
