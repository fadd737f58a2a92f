// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/auth"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/azdevops"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/cache"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/config"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/freshdesk"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/insights"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/store"
)

// mockFreshdesk is a canned ticket source counting upstream calls.
type mockFreshdesk struct {
	tickets    []models.Ticket
	ticket     *models.Ticket
	fetchCalls int
	err        error
}

func (m *mockFreshdesk) Domain() string { return "arms" }

func (m *mockFreshdesk) FetchAllTickets(ctx context.Context, params map[string]string, maxPages int) ([]models.Ticket, error) {
	m.fetchCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.tickets, nil
}

func (m *mockFreshdesk) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	if m.ticket == nil || m.ticket.ID != id {
		return nil, freshdesk.ErrNotFound
	}
	return m.ticket, nil
}

func (m *mockFreshdesk) ListConversations(ctx context.Context, ticketID int64) ([]models.Conversation, error) {
	return []models.Conversation{
		{ID: 1, Incoming: true},
		{ID: 2, Incoming: false},
		{ID: 3, Incoming: false},
	}, nil
}

func (m *mockFreshdesk) GetContact(ctx context.Context, id int64) (*models.Requester, error) {
	return &models.Requester{ID: id, Name: "Pat Requester"}, nil
}

type mockDevOps struct {
	items []models.WorkItem
}

func (m *mockDevOps) ListTaggedWorkItems(ctx context.Context, tag string) ([]models.WorkItem, error) {
	return m.items, nil
}

func (m *mockDevOps) GetWorkItem(ctx context.Context, id int) (*models.WorkItem, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, azdevops.ErrNotFound
}

type mockInsights struct {
	configured bool
}

func (m *mockInsights) Configured() bool { return m.configured }

func (m *mockInsights) Generate(ctx context.Context, data interface{}, dateRange insights.DateRange, focusArea string) (*insights.Response, error) {
	if !m.configured {
		return nil, insights.ErrNotConfigured
	}
	return &insights.Response{
		Insights:   "Ticket volume is stable.",
		FocusArea:  focusArea,
		DateRange:  dateRange,
		TokensUsed: insights.TokensUsed{Input: 500, Output: 200},
	}, nil
}

type testEnv struct {
	handler *Handler
	fd      *mockFreshdesk
	users   *store.UserStore
	tokens  *auth.TokenService
	router  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Freshdesk.Domain = "arms"
	cfg.Freshdesk.APIKey = "test-key"
	cfg.Freshdesk.MaxPages = 10
	cfg.DevOps.Organization = "arms-org"
	cfg.DevOps.Project = "arms-project"
	cfg.DevOps.PAT = "test-pat"
	cfg.DevOps.Tag = "Production Support"
	cfg.Insights.APIKey = "test-anthropic-key"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenExpiry = time.Hour
	cfg.Auth.RateLimitDisabled = true
	cfg.Cache.CurrentTTL = time.Minute
	cfg.Cache.HistoricalTTL = time.Hour

	fd := &mockFreshdesk{}
	users := store.NewUserStore(filepath.Join(t.TempDir(), "users.json"))
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	devops := &mockDevOps{items: []models.WorkItem{
		{ID: 101, Fields: models.WorkItemFields{Title: "Fix login", State: "Active"}},
	}}

	handler := NewHandler(cfg, cache.New(cfg.Cache.CurrentTTL), users, tokens, fd, devops, &mockInsights{configured: true})

	return &testEnv{
		handler: handler,
		fd:      fd,
		users:   users,
		tokens:  tokens,
		router:  handler.Router(),
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody[map[string]interface{}](t, rec)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
	if body["freshdesk_configured"] != true {
		t.Error("freshdesk_configured should be true")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request ID")
	}
}

func TestTicketsFiltersAndCaches(t *testing.T) {
	env := newTestEnv(t)
	env.fd.tickets = []models.Ticket{
		normalizedTicket(1, 2, 1, "2025-03-01T00:00:00Z", "PS5"),
		normalizedTicket(2, 5, 4, "2025-03-02T00:00:00Z", "Xbox"),
	}

	rec := env.do(t, http.MethodGet, "/tickets?platform=PS5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	tickets := decodeBody[[]models.Ticket](t, rec)
	if len(tickets) != 1 || tickets[0].ID != 1 {
		t.Errorf("filtered tickets = %+v", tickets)
	}

	// Second request with different client-side filter hits the cache.
	rec = env.do(t, http.MethodGet, "/tickets?platform=Xbox", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.fd.fetchCalls != 1 {
		t.Errorf("upstream fetches = %d, want 1 (second request served from cache)", env.fd.fetchCalls)
	}
}

func TestTicketsYearFilter(t *testing.T) {
	env := newTestEnv(t)
	env.fd.tickets = []models.Ticket{
		normalizedTicket(1, 2, 1, "2024-12-31T23:59:59Z", "PS5"),
		normalizedTicket(2, 2, 1, "2025-01-15T00:00:00Z", "PS5"),
	}

	rec := env.do(t, http.MethodGet, "/tickets", "", nil)
	tickets := decodeBody[[]models.Ticket](t, rec)
	if len(tickets) != 1 || tickets[0].ID != 2 {
		t.Errorf("default should exclude 2024: %+v", tickets)
	}

	rec = env.do(t, http.MethodGet, "/tickets?include_2024=true", "", nil)
	tickets = decodeBody[[]models.Ticket](t, rec)
	if len(tickets) != 2 {
		t.Errorf("include_2024=true should keep both, got %d", len(tickets))
	}
}

func TestTicketsUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.Freshdesk.APIKey = ""

	rec := env.do(t, http.MethodGet, "/tickets", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Freshdesk credentials not configured" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestTicketsBadDate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/tickets?start_date=yesterday", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.fd.tickets = []models.Ticket{
		normalizedTicket(1, 2, 4, "2025-03-01T00:00:00Z", "PS5"),
		normalizedTicket(2, 4, 3, "2025-03-02T00:00:00Z", "PS5"),
		normalizedTicket(3, 3, 1, "2025-03-03T00:00:00Z", "Xbox"),
	}

	rec := env.do(t, http.MethodGet, "/summary", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	summary := decodeBody[models.Summary](t, rec)
	if summary.TotalTickets != 3 {
		t.Errorf("TotalTickets = %d, want 3", summary.TotalTickets)
	}
	if summary.HighPriority != 2 {
		t.Errorf("HighPriority = %d, want 2 (priority >= 3)", summary.HighPriority)
	}
	if summary.Platforms["PS5"] != 2 {
		t.Errorf("Platforms = %v", summary.Platforms)
	}
}

func TestTicketDetail(t *testing.T) {
	env := newTestEnv(t)
	ticket := normalizedTicket(7, 2, 2, "2025-03-01T00:00:00Z", "PS5")
	ticket.RequesterID = 55
	env.fd.ticket = &ticket

	rec := env.do(t, http.MethodGet, "/ticket/7", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	detail := decodeBody[models.TicketDetail](t, rec)
	if detail.Ticket.ID != 7 {
		t.Errorf("ticket = %+v", detail.Ticket)
	}
	if len(detail.Conversations) != 3 {
		t.Errorf("conversations = %d, want 3", len(detail.Conversations))
	}
	if detail.AgentInteractions != 2 {
		t.Errorf("AgentInteractions = %d, want 2 (outgoing only)", detail.AgentInteractions)
	}
	if detail.Requester == nil || detail.Requester.Name != "Pat Requester" {
		t.Errorf("requester = %+v", detail.Requester)
	}
}

func TestTicketDetailNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/ticket/999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDevOpsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/devops", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	items := decodeBody[[]models.WorkItem](t, rec)
	if len(items) != 1 || items[0].Fields.Title != "Fix login" {
		t.Errorf("items = %+v", items)
	}

	rec = env.do(t, http.MethodGet, "/devops/101", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("detail status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/devops/999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing item status = %d, want 404", rec.Code)
	}
}

func TestGenerateInsights(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/generate_insights", "", map[string]interface{}{
		"aggregated_data": map[string]interface{}{"total_tickets": 42},
		"focus_area":      "trends",
		"date_range":      map[string]string{"start_date": "2025-06-01", "end_date": "2025-06-30"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[insights.Response](t, rec)
	if resp.FocusArea != "trends" {
		t.Errorf("FocusArea = %q", resp.FocusArea)
	}
	if resp.TokensUsed.Input != 500 || resp.TokensUsed.Output != 200 {
		t.Errorf("TokensUsed = %+v", resp.TokensUsed)
	}
}

func TestGenerateInsightsRequiresData(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/generate_insights", "", map[string]interface{}{
		"focus_area": "summary",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "aggregated_data is required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestGenerateInsightsUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.Insights.APIKey = ""

	rec := env.do(t, http.MethodPost, "/generate_insights", "", map[string]interface{}{
		"aggregated_data": map[string]interface{}{"total_tickets": 1},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "ANTHROPIC_API_KEY not configured" {
		t.Errorf("error = %q", body["error"])
	}
}
