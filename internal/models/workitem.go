// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package models

import "time"

// WorkItem is a task/bug record from the project tracker. Field keys are
// the tracker's fully qualified reference names.
type WorkItem struct {
	ID     int            `json:"id"`
	Rev    int            `json:"rev"`
	Fields WorkItemFields `json:"fields"`
	URL    string         `json:"url,omitempty"`
}

// WorkItemFields holds the subset of tracker fields the dashboard surfaces.
type WorkItemFields struct {
	Title        string       `json:"System.Title"`
	State        string       `json:"System.State"`
	WorkItemType string       `json:"System.WorkItemType"`
	AssignedTo   *IdentityRef `json:"System.AssignedTo,omitempty"`
	CreatedDate  time.Time    `json:"System.CreatedDate"`
	ChangedDate  time.Time    `json:"System.ChangedDate"`
	Tags         string       `json:"System.Tags,omitempty"`
	Priority     int          `json:"Microsoft.VSTS.Common.Priority,omitempty"`
	Description  string       `json:"System.Description,omitempty"`
}

// IdentityRef identifies a tracker user.
type IdentityRef struct {
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName,omitempty"`
}

// WorkItemRef is a WIQL query result entry: the id plus a resource URL.
type WorkItemRef struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}
