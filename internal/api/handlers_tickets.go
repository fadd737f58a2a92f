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

	"github.com/trevorlen/arms-support-dashboard-v2/internal/aggregate"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/cache"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/freshdesk"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

// Tickets serves the filtered, cached ticket list.
func (h *Handler) Tickets(w http.ResponseWriter, r *http.Request) {
	tickets, filter, ok := h.fetchFilteredTickets(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, filter.Apply(tickets))
}

// Summary serves aggregate statistics over the same filtered ticket set
// as /tickets.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	tickets, filter, ok := h.fetchFilteredTickets(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, aggregate.Summarize(filter.Apply(tickets)))
}

// fetchFilteredTickets runs the shared /tickets and /summary pipeline:
// config gate, filter parsing, cache lookup, upstream fetch on miss.
// It writes the error response itself and returns ok=false on failure.
//
// The cache stores the unfiltered upstream result, so differing
// client-side filters over the same updated_since window share one
// upstream scan.
func (h *Handler) fetchFilteredTickets(w http.ResponseWriter, r *http.Request) ([]models.Ticket, *aggregate.Filter, bool) {
	if !h.cfg.Freshdesk.Configured() {
		respondError(w, http.StatusInternalServerError, "Freshdesk credentials not configured")
		return nil, nil, false
	}

	filter, err := parseTicketFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	// The listing endpoint only filters by update time server-side.
	// Over-fetch by updated_since, filter precisely on created_at above.
	params := map[string]string{}
	if filter.StartDate != nil {
		params["updated_since"] = filter.StartDate.Format("2006-01-02T15:04:05Z07:00")
	}

	// Prior-year scans reach further back, so they page without bound
	// and cache longer.
	historical := filter.IncludePriorYear
	maxPages := h.cfg.Freshdesk.MaxPages
	ttl := h.cfg.Cache.CurrentTTL
	if historical {
		maxPages = 0
		ttl = h.cfg.Cache.HistoricalTTL
	}

	key := cache.GenerateKey(h.cfg.Freshdesk.BaseURL()+"/tickets", params, historical)
	if cached, found := h.cache.Get(key); found {
		if tickets, ok := cached.([]models.Ticket); ok {
			return tickets, filter, true
		}
	}

	tickets, err := h.freshdesk.FetchAllTickets(r.Context(), params, maxPages)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to fetch tickets")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch tickets: %v", err))
		return nil, nil, false
	}

	h.cache.SetWithTTL(key, tickets, ttl)
	return tickets, filter, true
}

// parseTicketFilter reads the recognized query parameters into a Filter.
func parseTicketFilter(r *http.Request) (*aggregate.Filter, error) {
	q := r.URL.Query()
	filter := &aggregate.Filter{
		Platform:         q.Get("platform"),
		League:           q.Get("league"),
		IncludePriorYear: q.Get("include_2024") == "true",
	}

	if v := q.Get("start_date"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %v", err)
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %v", err)
		}
		filter.EndDate = &t
	}
	if err := filter.ParseStatus(q.Get("status")); err != nil {
		return nil, fmt.Errorf("invalid status: must be numeric")
	}
	if err := filter.ParsePriority(q.Get("priority")); err != nil {
		return nil, fmt.Errorf("invalid priority: must be numeric")
	}

	// product_id is the preferred name; group_id kept for older dashboard
	// builds.
	groupParam := q.Get("product_id")
	if groupParam == "" {
		groupParam = q.Get("group_id")
	}
	if err := filter.ParseGroupID(groupParam); err != nil {
		return nil, fmt.Errorf("invalid product_id: must be numeric")
	}

	return filter, nil
}

// TicketDetail serves one ticket with its conversation thread, requester,
// and agent reply count.
func (h *Handler) TicketDetail(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Freshdesk.Configured() {
		respondError(w, http.StatusInternalServerError, "Freshdesk credentials not configured")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Ticket ID must be numeric")
		return
	}

	ticket, err := h.freshdesk.GetTicket(r.Context(), id)
	if err != nil {
		if errors.Is(err, freshdesk.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Ticket not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Int64("ticket_id", id).Msg("Failed to fetch ticket")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch ticket: %v", err))
		return
	}

	conversations, err := h.freshdesk.ListConversations(r.Context(), id)
	if err != nil && !errors.Is(err, freshdesk.ErrNotFound) {
		logging.Ctx(r.Context()).Error().Err(err).Int64("ticket_id", id).Msg("Failed to fetch conversations")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch conversations: %v", err))
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	// A missing contact degrades to a nil requester rather than failing
	// the whole detail view.
	var requester *models.Requester
	if ticket.RequesterID != 0 {
		requester, err = h.freshdesk.GetContact(r.Context(), ticket.RequesterID)
		if err != nil {
			if !errors.Is(err, freshdesk.ErrNotFound) {
				logging.Ctx(r.Context()).Warn().Err(err).Int64("requester_id", ticket.RequesterID).Msg("Failed to fetch requester")
			}
			requester = nil
		}
	}

	respondJSON(w, r, http.StatusOK, models.TicketDetail{
		Ticket:            *ticket,
		Conversations:     conversations,
		Requester:         requester,
		AgentInteractions: models.CountAgentInteractions(conversations),
	})
}
