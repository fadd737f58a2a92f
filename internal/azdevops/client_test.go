// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package azdevops

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

func newTestClient(serverURL string) *Client {
	c := NewClient("arms-org", "arms-project", "test-pat")
	c.baseURL = serverURL
	return c
}

func TestListTaggedWorkItems(t *testing.T) {
	var wiqlQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/wiql"):
			if r.Method != http.MethodPost {
				t.Errorf("WIQL method = %s, want POST", r.Method)
			}
			body, _ := io.ReadAll(r.Body)
			var req wiqlRequest
			_ = json.Unmarshal(body, &req)
			wiqlQuery = req.Query
			_ = json.NewEncoder(w).Encode(wiqlResponse{
				WorkItems: []models.WorkItemRef{{ID: 101}, {ID: 102}},
			})
		case strings.HasPrefix(r.URL.Path, "/workitems"):
			if got := r.URL.Query().Get("ids"); got != "101,102" {
				t.Errorf("ids = %q, want 101,102", got)
			}
			_ = json.NewEncoder(w).Encode(workItemBatchResponse{
				Count: 2,
				Value: []models.WorkItem{
					{ID: 101, Fields: models.WorkItemFields{Title: "Fix login", State: "Active"}},
					{ID: 102, Fields: models.WorkItemFields{Title: "Crash on PS5", State: "New"}},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	items, err := client.ListTaggedWorkItems(context.Background(), "Production Support")
	if err != nil {
		t.Fatalf("ListTaggedWorkItems failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Fields.Title != "Fix login" {
		t.Errorf("first item = %+v", items[0])
	}
	if !strings.Contains(wiqlQuery, "CONTAINS 'Production Support'") {
		t.Errorf("WIQL query missing tag clause: %q", wiqlQuery)
	}
	if !strings.Contains(wiqlQuery, "ORDER BY [System.ChangedDate] DESC") {
		t.Errorf("WIQL query missing ordering: %q", wiqlQuery)
	}
}

func TestListTaggedWorkItemsEscapesQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req wiqlRequest
		_ = json.Unmarshal(body, &req)
		if !strings.Contains(req.Query, "CONTAINS 'O''Brien'") {
			t.Errorf("single quote not escaped: %q", req.Query)
		}
		_ = json.NewEncoder(w).Encode(wiqlResponse{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	items, err := client.ListTaggedWorkItems(context.Background(), "O'Brien")
	if err != nil {
		t.Fatalf("ListTaggedWorkItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestGetWorkItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(":test-pat"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("Authorization = %q, want %q", got, wantAuth)
		}
		if r.URL.Path != "/workitems/42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(models.WorkItem{
			ID:     42,
			Fields: models.WorkItemFields{Title: "Leaderboard outage", State: "Resolved"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	item, err := client.GetWorkItem(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetWorkItem failed: %v", err)
	}
	if item.ID != 42 || item.Fields.State != "Resolved" {
		t.Errorf("item = %+v", item)
	}

	if _, err := client.GetWorkItem(context.Background(), 43); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
