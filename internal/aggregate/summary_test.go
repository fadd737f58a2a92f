// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package aggregate

import (
	"testing"
	"time"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func normalized(t models.Ticket) models.Ticket {
	t.Normalize("arms")
	return t
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd length", []float64{10, 20, 30}, 20},
		{"even length", []float64{10, 20, 30, 40}, 25},
		{"unsorted input", []float64{30, 10, 20}, 20},
		{"single value", []float64{42}, 42},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median(%v) = %f, want %f", tt.values, got, tt.want)
			}
		})
	}
}

func TestMean(t *testing.T) {
	if got := mean([]float64{10, 20, 30}); got != 20 {
		t.Errorf("mean = %f, want 20", got)
	}
	if got := mean(nil); got != 0 {
		t.Errorf("mean of empty = %f, want 0", got)
	}
}

func TestFilterExcludesPriorYearByDefault(t *testing.T) {
	tickets := []models.Ticket{
		{ID: 1, CreatedAt: ts("2024-12-31T23:59:59Z")},
		{ID: 2, CreatedAt: ts("2025-01-01T00:00:00Z")},
	}

	f := &Filter{}
	got := f.Apply(tickets)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("default filter should drop 2024 tickets, got %+v", got)
	}

	f.IncludePriorYear = true
	got = f.Apply(tickets)
	if len(got) != 2 {
		t.Errorf("include_2024 should keep both tickets, got %d", len(got))
	}
}

func TestFilterDateRangeUsesCreationTime(t *testing.T) {
	tickets := []models.Ticket{
		{ID: 1, CreatedAt: ts("2025-03-01T00:00:00Z"), UpdatedAt: ts("2025-06-15T00:00:00Z")},
		{ID: 2, CreatedAt: ts("2025-06-10T00:00:00Z"), UpdatedAt: ts("2025-06-10T00:00:00Z")},
	}

	start := ts("2025-06-01T00:00:00Z")
	end := ts("2025-06-30T23:59:59Z")
	f := &Filter{StartDate: &start, EndDate: &end}

	got := f.Apply(tickets)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("filter must use created_at, not updated_at: %+v", got)
	}
}

func TestFilterStatusPriorityPlatformLeague(t *testing.T) {
	tickets := []models.Ticket{
		normalized(models.Ticket{ID: 1, Status: 2, Priority: 4, CreatedAt: ts("2025-02-01T00:00:00Z"), CustomFields: models.CustomFields{"cf_platform": "PS5", "cf_league": "NHL"}}),
		normalized(models.Ticket{ID: 2, Status: 5, Priority: 1, CreatedAt: ts("2025-02-02T00:00:00Z"), CustomFields: models.CustomFields{"cf_platform": "Xbox", "cf_league": "NFL"}}),
	}

	status := 2
	f := &Filter{Status: &status}
	if got := f.Apply(tickets); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("status filter: %+v", got)
	}

	priority := 1
	f = &Filter{Priority: &priority}
	if got := f.Apply(tickets); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("priority filter: %+v", got)
	}

	f = &Filter{Platform: "PS5"}
	if got := f.Apply(tickets); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("platform filter: %+v", got)
	}

	f = &Filter{League: "NFL"}
	if got := f.Apply(tickets); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("league filter: %+v", got)
	}
}

func TestFilterGroupIDPrefersProductID(t *testing.T) {
	groupA, groupB := int64(10), int64(20)
	tickets := []models.Ticket{
		// product_id 20 overrides group_id 10
		{ID: 1, CreatedAt: ts("2025-02-01T00:00:00Z"), GroupID: &groupA, ProductID: &groupB},
		{ID: 2, CreatedAt: ts("2025-02-01T00:00:00Z"), GroupID: &groupA},
	}

	f := &Filter{GroupID: &groupB}
	if got := f.Apply(tickets); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("product_id should win: %+v", got)
	}

	f = &Filter{GroupID: &groupA}
	if got := f.Apply(tickets); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("group_id fallback: %+v", got)
	}
}

func TestFilterParsers(t *testing.T) {
	f := &Filter{}
	if err := f.ParseStatus("2"); err != nil || *f.Status != 2 {
		t.Errorf("ParseStatus: %v %+v", err, f.Status)
	}
	if err := f.ParsePriority("4"); err != nil || *f.Priority != 4 {
		t.Errorf("ParsePriority: %v %+v", err, f.Priority)
	}
	if err := f.ParseGroupID("17"); err != nil || *f.GroupID != 17 {
		t.Errorf("ParseGroupID: %v %+v", err, f.GroupID)
	}
	if err := f.ParseStatus("open"); err == nil {
		t.Error("non-numeric status should error")
	}
	clean := &Filter{}
	if err := clean.ParseStatus(""); err != nil || clean.Status != nil {
		t.Error("empty parameter should leave the filter unset")
	}
}

func respTicket(id int64, created string, responseAfter time.Duration) models.Ticket {
	createdAt := ts(created)
	respondedAt := createdAt.Add(responseAfter)
	return models.Ticket{
		ID:        id,
		Status:    2,
		Priority:  1,
		CreatedAt: createdAt,
		Stats: &models.TicketStats{
			FirstRespondedAt: &respondedAt,
			AgentRespondedAt: &respondedAt,
		},
	}
}

func TestSummarizeCounts(t *testing.T) {
	tickets := []models.Ticket{
		normalized(models.Ticket{ID: 1, Status: 2, Priority: 1, CustomFields: models.CustomFields{"cf_platform": "PS5", "cf_league": "NHL", "cf_issue_type": "System Issue"}}),
		normalized(models.Ticket{ID: 2, Status: 3, Priority: 2, CustomFields: models.CustomFields{"cf_platform": "PS5", "cf_issue_type": "User Issue", "cf_dev_assistance_needed": true}}),
		normalized(models.Ticket{ID: 3, Status: 4, Priority: 3, CustomFields: models.CustomFields{"cf_league": "NFL"}}),
		normalized(models.Ticket{ID: 4, Status: 5, Priority: 4}),
	}

	s := Summarize(tickets)

	if s.TotalTickets != 4 {
		t.Errorf("TotalTickets = %d, want 4", s.TotalTickets)
	}
	if s.OpenTickets != 1 || s.PendingTickets != 1 || s.ResolvedTickets != 2 {
		t.Errorf("status counts = %d/%d/%d, want 1/1/2", s.OpenTickets, s.PendingTickets, s.ResolvedTickets)
	}
	if s.LowPriority != 1 || s.MediumPriority != 1 || s.UrgentPriority != 1 {
		t.Errorf("priority buckets = %d/%d/%d", s.LowPriority, s.MediumPriority, s.UrgentPriority)
	}
	// high includes urgent (priority >= 3)
	if s.HighPriority != 2 {
		t.Errorf("HighPriority = %d, want 2", s.HighPriority)
	}
	if s.SystemIssues != 1 || s.UserIssues != 1 {
		t.Errorf("issue counts = %d/%d, want 1/1", s.SystemIssues, s.UserIssues)
	}
	if s.DevAssistanceNeeded != 1 {
		t.Errorf("DevAssistanceNeeded = %d, want 1", s.DevAssistanceNeeded)
	}
}

func TestSummarizeGroupByUnknownRules(t *testing.T) {
	tickets := []models.Ticket{
		normalized(models.Ticket{ID: 1, CustomFields: models.CustomFields{"cf_platform": "PS5"}}),
		normalized(models.Ticket{ID: 2}),
	}

	s := Summarize(tickets)

	if _, ok := s.Platforms["Unknown"]; ok {
		t.Error("platforms must exclude Unknown")
	}
	if _, ok := s.Leagues["Unknown"]; ok {
		t.Error("leagues must exclude Unknown")
	}
	if s.IssueTypes["Unknown"] != 2 {
		t.Errorf("issue types must include Unknown, got %v", s.IssueTypes)
	}
	if s.Platforms["PS5"] != 1 {
		t.Errorf("Platforms = %v", s.Platforms)
	}
}

func TestSummarizeResponseTimes(t *testing.T) {
	tickets := []models.Ticket{
		respTicket(1, "2025-02-01T00:00:00Z", 10*time.Second),
		respTicket(2, "2025-02-02T00:00:00Z", 20*time.Second),
		respTicket(3, "2025-02-03T00:00:00Z", 30*time.Second),
		// No response stats: excluded from the math, not counted as zero.
		{ID: 4, Status: 2, Priority: 1, CreatedAt: ts("2025-02-04T00:00:00Z")},
	}

	s := Summarize(tickets)

	if s.AvgResponseTimeSeconds != 20 {
		t.Errorf("avg = %f, want 20", s.AvgResponseTimeSeconds)
	}
	if s.MedianResponseTimeSeconds != 20 {
		t.Errorf("median = %f, want 20", s.MedianResponseTimeSeconds)
	}
	if s.TicketsWithAgentResponse != 3 {
		t.Errorf("TicketsWithAgentResponse = %d, want 3", s.TicketsWithAgentResponse)
	}
}

func TestSummarizeEvenMedian(t *testing.T) {
	tickets := []models.Ticket{
		respTicket(1, "2025-02-01T00:00:00Z", 10*time.Second),
		respTicket(2, "2025-02-02T00:00:00Z", 20*time.Second),
		respTicket(3, "2025-02-03T00:00:00Z", 30*time.Second),
		respTicket(4, "2025-02-04T00:00:00Z", 40*time.Second),
	}

	s := Summarize(tickets)
	if s.MedianResponseTimeSeconds != 25 {
		t.Errorf("median = %f, want 25", s.MedianResponseTimeSeconds)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalTickets != 0 || s.AvgResponseTimeSeconds != 0 || s.MedianResponseTimeSeconds != 0 {
		t.Errorf("empty summary = %+v", s)
	}
	if s.Platforms == nil || s.Leagues == nil || s.IssueTypes == nil {
		t.Error("group-by maps should be initialized, not nil")
	}
}
