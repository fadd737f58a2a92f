// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"errors"
	"net/http"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/auth"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/store"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/validation"
)

// Login checks credentials and issues a session token. The response
// carries the user projection so the dashboard can show the
// must_change_password prompt straight away.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}

	user, err := h.users.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same message as a bad password, no username oracle.
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("User lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to read user store")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		if errors.Is(err, auth.ErrNotConfigured) {
			respondError(w, http.StatusInternalServerError, "JWT secret not configured")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token issuance failed")
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	if err := h.users.TouchLastLogin(user.ID); err != nil {
		// Login still succeeds; last_login is best effort.
		logging.Ctx(r.Context()).Warn().Err(err).Str("user_id", user.ID).Msg("Failed to record last login")
	}

	projection := user.Projection()
	if refreshed, err := h.users.FindByID(user.ID); err == nil {
		projection = refreshed.Projection()
	}

	logging.Ctx(r.Context()).Info().Str("username", user.Username).Msg("User logged in")
	respondJSON(w, r, http.StatusOK, LoginResponse{Token: token, User: projection})
}

// Me echoes the authenticated identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token outlived the account.
			respondError(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to read user store")
		return
	}

	respondJSON(w, r, http.StatusOK, user.Projection())
}

// Logout is a no-op: tokens are stateless and expire on their own. The
// endpoint exists so clients have a uniform logout call.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "Logged out"})
}

// ChangePassword lets an authenticated user rotate their own password
// after re-proving the current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}

	user, err := h.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to read user store")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	updated, err := h.users.Update(user.ID, store.UserUpdate{Password: &req.NewPassword})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", user.ID).Msg("Password update failed")
		respondError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	logging.Ctx(r.Context()).Info().Str("username", user.Username).Msg("Password changed")
	respondJSON(w, r, http.StatusOK, updated.Projection())
}
