// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/insights"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
)

// GenerateInsights produces an LLM narrative over caller-supplied
// aggregated data. The caller aggregates first (via /summary or its own
// rollup); raw ticket text never reaches the model.
func (h *Handler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	var req InsightsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.AggregatedData == nil {
		respondError(w, http.StatusBadRequest, "aggregated_data is required")
		return
	}
	if req.FocusArea == "" {
		req.FocusArea = insights.FocusSummary
	}

	if !h.cfg.Insights.Configured() {
		respondError(w, http.StatusInternalServerError, "ANTHROPIC_API_KEY not configured")
		return
	}

	result, err := h.insights.Generate(r.Context(), req.AggregatedData, req.DateRange, req.FocusArea)
	if err != nil {
		if errors.Is(err, insights.ErrNotConfigured) {
			respondError(w, http.StatusInternalServerError, "ANTHROPIC_API_KEY not configured")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("focus_area", req.FocusArea).Msg("Failed to generate insights")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating insights: %v", err))
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
