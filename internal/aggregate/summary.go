// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package aggregate filters normalized ticket collections and computes
// the cross-ticket statistics behind /summary.
package aggregate

import (
	"sort"
	"strconv"
	"time"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

// priorYearCutoff is the creation-time boundary for the prior-year
// toggle. Tickets created before it are excluded unless the caller opts
// in with include_2024.
var priorYearCutoff = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Filter holds the client-side ticket filters. The upstream listing only
// filters by update time server-side, so the fetch over-selects by
// updated_since and this filter applies the precise creation-time rules.
type Filter struct {
	StartDate        *time.Time
	EndDate          *time.Time
	Status           *int
	Priority         *int
	Platform         string
	League           string
	GroupID          *int64
	IncludePriorYear bool
}

// ParseStatus converts a status query parameter into the filter field.
func (f *Filter) ParseStatus(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	f.Status = &n
	return nil
}

// ParsePriority converts a priority query parameter into the filter field.
func (f *Filter) ParsePriority(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	f.Priority = &n
	return nil
}

// ParseGroupID converts a product_id/group_id query parameter.
func (f *Filter) ParseGroupID(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	f.GroupID = &n
	return nil
}

// Apply returns the tickets passing every active filter. All date rules
// run against the creation timestamp.
func (f *Filter) Apply(tickets []models.Ticket) []models.Ticket {
	filtered := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.matches(&t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func (f *Filter) matches(t *models.Ticket) bool {
	if !f.IncludePriorYear && t.CreatedAt.Before(priorYearCutoff) {
		return false
	}
	if f.StartDate != nil && t.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Platform != "" && t.Platform != f.Platform {
		return false
	}
	if f.League != "" && t.League != f.League {
		return false
	}
	if f.GroupID != nil {
		// product_id wins when both are present on the ticket.
		id := t.GroupID
		if t.ProductID != nil {
			id = t.ProductID
		}
		if id == nil || *id != *f.GroupID {
			return false
		}
	}
	return true
}

// Summarize computes the summary statistics over an already filtered,
// normalized ticket collection.
//
// Group-by maps exclude "Unknown" for platforms and leagues but keep it
// for issue types, where an uncategorized ticket is itself a signal.
// Response-time stats cover only tickets with a strictly positive
// first-response duration.
func Summarize(tickets []models.Ticket) models.Summary {
	summary := models.Summary{
		TotalTickets: len(tickets),
		Platforms:    make(map[string]int),
		Leagues:      make(map[string]int),
		IssueTypes:   make(map[string]int),
	}

	var responseTimes []float64

	for i := range tickets {
		t := &tickets[i]

		switch t.Status {
		case models.StatusOpen:
			summary.OpenTickets++
		case models.StatusPending:
			summary.PendingTickets++
		case models.StatusResolved, models.StatusClosed:
			summary.ResolvedTickets++
		}

		switch t.Priority {
		case models.PriorityLow:
			summary.LowPriority++
		case models.PriorityMedium:
			summary.MediumPriority++
		case models.PriorityHigh:
			summary.HighPriority++
		case models.PriorityUrgent:
			summary.HighPriority++
			summary.UrgentPriority++
		}

		switch t.IssueType {
		case "System Issue":
			summary.SystemIssues++
		case "User Issue":
			summary.UserIssues++
		}
		summary.IssueTypes[t.IssueType]++

		if t.Platform != "Unknown" {
			summary.Platforms[t.Platform]++
		}
		if t.League != "Unknown" {
			summary.Leagues[t.League]++
		}

		if t.DevAssistanceNeeded {
			summary.DevAssistanceNeeded++
		}
		if t.HasAgentResponse() {
			summary.TicketsWithAgentResponse++
		}
		if secs, ok := t.FirstResponseSeconds(); ok {
			responseTimes = append(responseTimes, secs)
		}
	}

	summary.AvgResponseTimeSeconds = mean(responseTimes)
	summary.MedianResponseTimeSeconds = median(responseTimes)

	return summary
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median sorts a copy and applies the standard even/odd rule: the middle
// value, or the average of the two middle values for even-length input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
