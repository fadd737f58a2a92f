// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package models defines the data types shared across the API facade:
// helpdesk tickets and their derived display fields, user records, work
// items, and the summary statistics payload.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Status codes used by the upstream helpdesk.
const (
	StatusOpen     = 2
	StatusPending  = 3
	StatusResolved = 4
	StatusClosed   = 5
)

// Priority codes used by the upstream helpdesk.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

var statusNames = map[int]string{
	StatusOpen:     "Open",
	StatusPending:  "Pending",
	StatusResolved: "Resolved",
	StatusClosed:   "Closed",
}

var priorityNames = map[int]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// StatusName maps a helpdesk status code to its display name.
// Unmapped codes yield "Unknown".
func StatusName(code int) string {
	if name, ok := statusNames[code]; ok {
		return name
	}
	return "Unknown"
}

// PriorityName maps a helpdesk priority code to its display name.
// Unmapped codes yield "Unknown".
func PriorityName(code int) string {
	if name, ok := priorityNames[code]; ok {
		return name
	}
	return "Unknown"
}

// CustomFields is the upstream's free-form custom field map. The helpdesk
// appends an internal numeric id to field keys (cf_platform627919), so
// lookups go through prefix matching rather than direct indexing.
type CustomFields map[string]interface{}

// Lookup resolves a logical field name against the map. An exact key match
// wins; otherwise the first key whose suffix after the prefix is empty or
// purely numeric is used. Returns false when no key qualifies.
func (cf CustomFields) Lookup(prefix string) (interface{}, bool) {
	if len(cf) == 0 {
		return nil, false
	}

	if v, ok := cf[prefix]; ok {
		return v, true
	}

	for key, v := range cf {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if isNumericSuffix(key[len(prefix):]) {
			return v, true
		}
	}

	return nil, false
}

// LookupString resolves a field and coerces it to a string. Missing fields
// and non-string values yield the fallback.
func (cf CustomFields) LookupString(prefix, fallback string) string {
	v, ok := cf.Lookup(prefix)
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// LookupBool resolves a field and coerces it to a bool. Missing fields and
// non-bool values yield false.
func (cf CustomFields) LookupBool(prefix string) bool {
	v, ok := cf.Lookup(prefix)
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func isNumericSuffix(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TicketStats carries the response-time timestamps the helpdesk returns
// when tickets are listed with include=stats.
type TicketStats struct {
	FirstRespondedAt *time.Time `json:"first_responded_at,omitempty"`
	AgentRespondedAt *time.Time `json:"agent_responded_at,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
}

// Ticket is a helpdesk ticket. The upstream fields are read as-is; the
// derived fields are filled in by Normalize and recomputed from the raw
// source fields on every call.
type Ticket struct {
	ID           int64        `json:"id"`
	Subject      string       `json:"subject"`
	Status       int          `json:"status"`
	Priority     int          `json:"priority"`
	Source       int          `json:"source,omitempty"`
	RequesterID  int64        `json:"requester_id,omitempty"`
	ResponderID  *int64       `json:"responder_id,omitempty"`
	GroupID      *int64       `json:"group_id,omitempty"`
	ProductID    *int64       `json:"product_id,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	DueBy        *time.Time   `json:"due_by,omitempty"`
	CustomFields CustomFields `json:"custom_fields,omitempty"`
	Stats        *TicketStats `json:"stats,omitempty"`

	// Derived fields, populated by Normalize.
	StatusName          string `json:"status_name,omitempty"`
	PriorityName        string `json:"priority_name,omitempty"`
	Platform            string `json:"platform,omitempty"`
	League              string `json:"league,omitempty"`
	Team                string `json:"team,omitempty"`
	IssueType           string `json:"issue_type,omitempty"`
	TicketType          string `json:"ticket_type,omitempty"`
	Description         string `json:"description,omitempty"`
	DevAssistanceNeeded bool   `json:"dev_assistance_needed"`
	FreshdeskURL        string `json:"freshdesk_url,omitempty"`
}

// Normalize fills in the derived display fields from the raw upstream
// fields. Idempotent: calling it again recomputes the same values.
func (t *Ticket) Normalize(domain string) {
	t.StatusName = StatusName(t.Status)
	t.PriorityName = PriorityName(t.Priority)

	t.Platform = t.CustomFields.LookupString("cf_platform", "Unknown")
	t.League = t.CustomFields.LookupString("cf_league", "Unknown")
	t.Team = t.CustomFields.LookupString("cf_team", "Unknown")
	t.IssueType = t.CustomFields.LookupString("cf_issue_type", "Unknown")
	t.TicketType = t.CustomFields.LookupString("cf_ticket_type", "Unknown")
	t.Description = t.CustomFields.LookupString("cf_description", "")
	t.DevAssistanceNeeded = t.CustomFields.LookupBool("cf_dev_assistance_needed")

	t.FreshdeskURL = fmt.Sprintf("https://%s.freshdesk.com/a/tickets/%d", domain, t.ID)
}

// FirstResponseSeconds returns the elapsed seconds between ticket creation
// and the first agent response. The second return is false when the ticket
// has no first-response timestamp or the elapsed duration is not strictly
// positive.
func (t *Ticket) FirstResponseSeconds() (float64, bool) {
	if t.Stats == nil || t.Stats.FirstRespondedAt == nil || t.CreatedAt.IsZero() {
		return 0, false
	}
	secs := t.Stats.FirstRespondedAt.Sub(t.CreatedAt).Seconds()
	if secs <= 0 {
		return 0, false
	}
	return secs, true
}

// HasAgentResponse reports whether an agent has responded at least once.
func (t *Ticket) HasAgentResponse() bool {
	return t.Stats != nil && t.Stats.AgentRespondedAt != nil
}

// Conversation is a single entry in a ticket's conversation thread.
// Incoming entries come from the requester; outgoing ones from agents.
type Conversation struct {
	ID        int64     `json:"id"`
	BodyText  string    `json:"body_text"`
	Body      string    `json:"body,omitempty"`
	Incoming  bool      `json:"incoming"`
	Private   bool      `json:"private"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Requester is the helpdesk contact who opened a ticket.
type Requester struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// TicketDetail is the /ticket/{id} response: the normalized ticket, its
// conversation thread, the requester, and the agent reply count.
type TicketDetail struct {
	Ticket            Ticket         `json:"ticket"`
	Conversations     []Conversation `json:"conversations"`
	Requester         *Requester     `json:"requester,omitempty"`
	AgentInteractions int            `json:"agent_interactions"`
}

// CountAgentInteractions counts the outgoing (agent-authored) entries in a
// conversation thread.
func CountAgentInteractions(conversations []Conversation) int {
	n := 0
	for _, c := range conversations {
		if !c.Incoming {
			n++
		}
	}
	return n
}
