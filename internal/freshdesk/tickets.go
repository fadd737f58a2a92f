// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package freshdesk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/metrics"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

// perPage is the page size requested from the ticket listing endpoint,
// the maximum Freshdesk allows.
const perPage = 100

// unboundedPageWarning is the page count past which an unbounded
// historical scan logs an operational warning. The scan continues.
const unboundedPageWarning = 100

// FetchAllTickets pulls every page of the ticket listing, accumulating
// results until the page cap, an empty page, or a missing "next" relation
// in the pagination Link header.
//
// maxPages <= 0 means unbounded, used for full historical scans.
//
// Pages are fetched sequentially, one at a time, preserving upstream
// ordering. A per-page failure after the first page is a soft stop: the
// pages accumulated so far are returned with no error, because partial
// results beat total failure for a dashboard. A first-page failure is
// surfaced, since it usually means credentials or connectivity rather
// than a transient blip mid-scan.
//
// Tickets are returned normalized.
func (c *Client) FetchAllTickets(ctx context.Context, params map[string]string, maxPages int) ([]models.Ticket, error) {
	var all []models.Ticket

	for page := 1; ; page++ {
		if maxPages > 0 && page > maxPages {
			logging.Ctx(ctx).Debug().Int("max_pages", maxPages).Msg("Ticket fetch reached page cap")
			break
		}
		if maxPages <= 0 && page == unboundedPageWarning+1 {
			logging.Ctx(ctx).Warn().Int("pages", page-1).Msg("Unbounded ticket scan exceeded 100 pages")
		}

		tickets, hasNext, err := c.fetchTicketPage(ctx, params, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			metrics.UpstreamRequestsTotal.WithLabelValues("freshdesk", "soft_stop").Inc()
			logging.Ctx(ctx).Warn().Err(err).Int("page", page).Int("accumulated", len(all)).
				Msg("Ticket page fetch failed, returning partial results")
			break
		}

		metrics.UpstreamPagesFetched.Inc()

		if len(tickets) == 0 {
			break
		}

		all = append(all, tickets...)

		if !hasNext {
			break
		}
	}

	for i := range all {
		all[i].Normalize(c.domain)
	}

	logging.Ctx(ctx).Info().Int("tickets", len(all)).Msg("Fetched tickets from Freshdesk")
	return all, nil
}

// fetchTicketPage requests a single listing page. The second return
// reports whether the pagination Link header carries a "next" relation.
func (c *Client) fetchTicketPage(ctx context.Context, params map[string]string, page int) ([]models.Ticket, bool, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("include", "stats")

	reqURL := fmt.Sprintf("%s/tickets?%s", c.baseURL, query.Encode())

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch tickets page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, false, fmt.Errorf("tickets request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tickets []models.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return nil, false, fmt.Errorf("failed to decode tickets page %d: %w", page, err)
	}

	return tickets, hasNextLink(resp.Header.Get("Link")), nil
}

// hasNextLink reports whether an RFC 5988 Link header contains a "next"
// relation. Freshdesk sends `<url>; rel="next"` while more pages remain
// and omits it on the last page.
func hasNextLink(header string) bool {
	if header == "" {
		return false
	}
	for _, part := range strings.Split(header, ",") {
		if strings.Contains(part, `rel="next"`) {
			return true
		}
	}
	return false
}

// GetTicket fetches a single ticket by id, normalized, with its stats.
// Returns ErrNotFound for unknown ids.
func (c *Client) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	reqURL := fmt.Sprintf("%s/tickets/%d?include=stats", c.baseURL, id)

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("ticket request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var ticket models.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return nil, fmt.Errorf("failed to decode ticket %d: %w", id, err)
	}

	ticket.Normalize(c.domain)
	return &ticket, nil
}

// ListConversations fetches the conversation thread of a ticket.
func (c *Client) ListConversations(ctx context.Context, ticketID int64) ([]models.Conversation, error) {
	reqURL := fmt.Sprintf("%s/tickets/%d/conversations", c.baseURL, ticketID)

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations for ticket %d: %w", ticketID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("conversations request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var conversations []models.Conversation
	if err := json.NewDecoder(resp.Body).Decode(&conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations for ticket %d: %w", ticketID, err)
	}

	return conversations, nil
}

// GetContact fetches a helpdesk contact, used to resolve a ticket's
// requester. A missing contact is not fatal to a ticket detail response,
// so callers treat ErrNotFound as an absent requester.
func (c *Client) GetContact(ctx context.Context, id int64) (*models.Requester, error) {
	reqURL := fmt.Sprintf("%s/contacts/%d", c.baseURL, id)

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("contact request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var requester models.Requester
	if err := json.NewDecoder(resp.Body).Decode(&requester); err != nil {
		return nil, fmt.Errorf("failed to decode contact %d: %w", id, err)
	}

	return &requester, nil
}
