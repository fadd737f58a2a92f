// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/azdevops"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/cache"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

// DevOpsWorkItems serves the work items tagged for production support.
func (h *Handler) DevOpsWorkItems(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.DevOps.Configured() {
		respondError(w, http.StatusInternalServerError, "Azure DevOps credentials not configured")
		return
	}

	key := cache.GenerateKey("devops/workitems", map[string]string{"tag": h.cfg.DevOps.Tag}, false)
	if cached, found := h.cache.Get(key); found {
		if items, ok := cached.([]models.WorkItem); ok {
			respondJSON(w, r, http.StatusOK, items)
			return
		}
	}

	items, err := h.devops.ListTaggedWorkItems(r.Context(), h.cfg.DevOps.Tag)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to fetch work items")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch work items: %v", err))
		return
	}

	h.cache.Set(key, items)
	respondJSON(w, r, http.StatusOK, items)
}

// DevOpsWorkItemDetail serves one work item by id.
func (h *Handler) DevOpsWorkItemDetail(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.DevOps.Configured() {
		respondError(w, http.StatusInternalServerError, "Azure DevOps credentials not configured")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Work item ID must be numeric")
		return
	}

	item, err := h.devops.GetWorkItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, azdevops.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Work item not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Int("work_item_id", id).Msg("Failed to fetch work item")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch work item: %v", err))
		return
	}

	respondJSON(w, r, http.StatusOK, item)
}
