// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/config"
)

// Health is the liveness endpoint. It always answers 200; the configured
// flags tell the dashboard which panels can work.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":               "healthy",
		"service":              "ARMS Support Dashboard API",
		"version":              config.Version,
		"timestamp":            time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds":       int64(time.Since(h.startTime).Seconds()),
		"freshdesk_configured": h.cfg.Freshdesk.Configured(),
		"devops_configured":    h.cfg.DevOps.Configured(),
		"insights_configured":  h.cfg.Insights.Configured(),
		"auth_configured":      h.cfg.Auth.TokenConfigured(),
	})
}

// Stats echoes the non-secret configuration plus cache counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	domain := h.cfg.Freshdesk.Domain
	if domain == "" {
		domain = "Not configured"
	}

	cacheStats := h.cache.GetStats()

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"api_version":          config.Version,
		"go_version":           runtime.Version(),
		"environment":          h.cfg.Server.Environment,
		"freshdesk_configured": h.cfg.Freshdesk.Configured(),
		"freshdesk_domain":     domain,
		"devops_configured":    h.cfg.DevOps.Configured(),
		"insights_configured":  h.cfg.Insights.Configured(),
		"cache": map[string]interface{}{
			"hits":      cacheStats.Hits,
			"misses":    cacheStats.Misses,
			"evictions": cacheStats.Evictions,
			"keys":      cacheStats.TotalKeys,
			"hit_rate":  h.cache.HitRate(),
		},
	})
}
