// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package models

// Summary is the /summary response body: cross-ticket statistics over a
// filtered, normalized ticket collection.
type Summary struct {
	TotalTickets    int `json:"total_tickets"`
	OpenTickets     int `json:"open_tickets"`
	PendingTickets  int `json:"pending_tickets"`
	ResolvedTickets int `json:"resolved_tickets"`

	LowPriority    int `json:"low_priority"`
	MediumPriority int `json:"medium_priority"`
	HighPriority   int `json:"high_priority"`
	UrgentPriority int `json:"urgent_priority"`

	SystemIssues        int `json:"system_issues"`
	UserIssues          int `json:"user_issues"`
	DevAssistanceNeeded int `json:"dev_assistance_needed"`

	Platforms  map[string]int `json:"platforms"`
	Leagues    map[string]int `json:"leagues"`
	IssueTypes map[string]int `json:"issue_types"`

	AvgResponseTimeSeconds    float64 `json:"avg_response_time_seconds"`
	MedianResponseTimeSeconds float64 `json:"median_response_time_seconds"`
	TicketsWithAgentResponse  int     `json:"tickets_with_agent_response"`
}
