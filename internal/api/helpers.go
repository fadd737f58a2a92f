// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
)

// maxRequestBodySize caps inbound JSON bodies.
const maxRequestBodySize = 1 << 20 // 1MB

// respondJSON writes a JSON response with an FNV-1a ETag. Conditional
// requests with a matching If-None-Match get a 304 with no body.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
		respondError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}

	if status == http.StatusOK {
		hasher := fnv.New64a()
		_, _ = hasher.Write(data)
		etag := fmt.Sprintf(`"%x"`, hasher.Sum64())

		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// respondError writes the uniform error body. Every error path in the API
// goes through here; no endpoint returns a non-JSON error.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeJSONBody parses a request body into dst. Returns a caller-facing
// message on failure.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// parseDateParam accepts RFC3339 timestamps and bare dates (2006-01-02).
// Bare dates are taken as midnight UTC.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", value)
}
