// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

/*
client.go - Core Freshdesk API Client

This file provides the core Client struct and HTTP communication layer for
the Freshdesk REST API (v2).

Client Features:
  - HTTP client with 30-second timeout
  - Basic authentication (API key as username, "X" as password)
  - Client-side request rate limiting (token bucket)
  - Automatic HTTP 429 handling with exponential backoff
  - Context support for cancellation and timeouts

Resilience Mechanisms:
  - Rate Limiting: Exponential backoff (1s, 2s, 4s, 8s, 16s) on HTTP 429,
    honoring Retry-After when present
  - Retries: Max 5 attempts for rate-limited requests

Related Files:
  - tickets.go: Ticket listing, pagination, detail, conversations, contacts
  - circuit_breaker.go: Circuit breaker wrapper around this client
*/
package freshdesk

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// maxErrorBodySize limits the response body read for error reporting.
// Prevents unbounded memory allocation on large upstream error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// ErrNotConfigured is returned when the Freshdesk domain or API key is
// missing. Callers map it to a per-request 500.
var ErrNotConfigured = errors.New("Freshdesk credentials not configured")

// ErrNotFound is returned for 404 responses on single-resource lookups.
var ErrNotFound = errors.New("resource not found")

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client handles communication with the Freshdesk HTTP API.
//
// Thread Safety: safe for concurrent use. Each request creates its own
// HTTP request; the shared rate limiter is internally synchronized.
type Client struct {
	baseURL        string
	domain         string
	authHeader     string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a Freshdesk API client.
//
// domain is the account subdomain (the "arms" in arms.freshdesk.com).
// requestsPerSecond throttles outbound calls client-side, below the
// upstream plan limit, so pagination bursts do not trip upstream 429s.
func NewClient(domain, apiKey string, requestsPerSecond int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 4
	}

	// Freshdesk basic auth: API key as username, literal "X" as password.
	credentials := base64.StdEncoding.EncodeToString([]byte(apiKey + ":X"))

	return &Client{
		baseURL:    fmt.Sprintf("https://%s.freshdesk.com/api/v2", domain),
		domain:     domain,
		authHeader: "Basic " + credentials,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:        rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// Domain returns the account subdomain, used to build ticket deep links.
func (c *Client) Domain() string {
	return c.domain
}

// doRequestWithRateLimit performs a GET with client-side throttling and
// automatic HTTP 429 handling. Backoff waits are cancellable through the
// context.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", c.authHeader)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		// Exponential backoff: 1s, 2s, 4s, 8s, 16s
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		// Retry-After (RFC 6585) overrides the computed delay
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}
