// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package azdevops is a thin client for the Azure DevOps work item API.
// The dashboard runs one WIQL query for tagged work items and hydrates
// the results in id batches.
package azdevops

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

const apiVersion = "7.0"

// batchSize is the work item batch limit imposed by the API.
const batchSize = 200

// ErrNotFound is returned for 404 responses on single work item lookups.
var ErrNotFound = errors.New("work item not found")

// Service is the work-item-source contract the API handlers depend on.
type Service interface {
	ListTaggedWorkItems(ctx context.Context, tag string) ([]models.WorkItem, error)
	GetWorkItem(ctx context.Context, id int) (*models.WorkItem, error)
}

// Client talks to the Azure DevOps REST API with PAT authentication.
// Safe for concurrent use.
type Client struct {
	baseURL    string
	authHeader string
	client     *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates an Azure DevOps client for one organization/project.
func NewClient(organization, project, pat string) *Client {
	// PAT basic auth: empty username, PAT as password.
	credentials := base64.StdEncoding.EncodeToString([]byte(":" + pat))

	return &Client{
		baseURL:    fmt.Sprintf("https://dev.azure.com/%s/%s/_apis/wit", url.PathEscape(organization), url.PathEscape(project)),
		authHeader: "Basic " + credentials,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type wiqlRequest struct {
	Query string `json:"query"`
}

type wiqlResponse struct {
	WorkItems []models.WorkItemRef `json:"workItems"`
}

type workItemBatchResponse struct {
	Count int               `json:"count"`
	Value []models.WorkItem `json:"value"`
}

// ListTaggedWorkItems queries work items carrying the given tag, newest
// change first, and hydrates their fields in batches.
func (c *Client) ListTaggedWorkItems(ctx context.Context, tag string) ([]models.WorkItem, error) {
	// Tags cannot be parameterized in WIQL; single quotes in the tag are
	// doubled to keep the query well formed.
	escaped := strings.ReplaceAll(tag, "'", "''")
	query := fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.Tags] CONTAINS '%s' ORDER BY [System.ChangedDate] DESC",
		escaped,
	)

	refs, err := c.runWIQL(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []models.WorkItem{}, nil
	}

	ids := make([]int, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}

	var items []models.WorkItem
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := c.getWorkItemBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}

	return items, nil
}

// GetWorkItem fetches a single work item by id. Returns ErrNotFound for
// unknown ids.
func (c *Client) GetWorkItem(ctx context.Context, id int) (*models.WorkItem, error) {
	reqURL := fmt.Sprintf("%s/workitems/%d?api-version=%s", c.baseURL, id, apiVersion)

	resp, err := c.doRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("work item", resp)
	}

	var item models.WorkItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to decode work item %d: %w", id, err)
	}
	return &item, nil
}

// runWIQL executes a WIQL query and returns the matching id refs.
func (c *Client) runWIQL(ctx context.Context, query string) ([]models.WorkItemRef, error) {
	body, err := json.Marshal(wiqlRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode WIQL query: %w", err)
	}

	reqURL := fmt.Sprintf("%s/wiql?api-version=%s", c.baseURL, apiVersion)
	resp, err := c.doRequest(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("WIQL", resp)
	}

	var result wiqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode WIQL response: %w", err)
	}
	return result.WorkItems, nil
}

// getWorkItemBatch hydrates a batch of work item ids.
func (c *Client) getWorkItemBatch(ctx context.Context, ids []int) ([]models.WorkItem, error) {
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = strconv.Itoa(id)
	}

	reqURL := fmt.Sprintf("%s/workitems?ids=%s&api-version=%s", c.baseURL, strings.Join(idStrs, ","), apiVersion)
	resp, err := c.doRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("work item batch", resp)
	}

	var result workItemBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode work item batch: %w", err)
	}
	return result.Value, nil
}

func (c *Client) doRequest(ctx context.Context, method, reqURL string, body []byte) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return fmt.Errorf("%s request failed with status %d: %s", op, resp.StatusCode, string(body))
}
