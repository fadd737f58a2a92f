// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package freshdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/metrics"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

// Circuit breaker timing.
const (
	breakerInterval = time.Minute     // closed-state count reset window
	breakerTimeout  = 2 * time.Minute // open to half-open delay
)

// Service is the ticket-source contract the API handlers depend on.
// Implemented by CircuitBreakerClient for production and by mocks in
// handler tests.
type Service interface {
	Domain() string
	FetchAllTickets(ctx context.Context, params map[string]string, maxPages int) ([]models.Ticket, error)
	GetTicket(ctx context.Context, id int64) (*models.Ticket, error)
	ListConversations(ctx context.Context, ticketID int64) ([]models.Conversation, error)
	GetContact(ctx context.Context, id int64) (*models.Requester, error)
}

// CircuitBreakerClient wraps Client with the circuit breaker pattern so a
// dead or slow helpdesk fails fast instead of stacking up 30-second
// timeouts across requests.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests should mock the underlying client rather than the breaker.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

var _ Service = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient creates a Freshdesk client with circuit breaker
// protection. Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(domain, apiKey string, requestsPerSecond int) *CircuitBreakerClient {
	client := NewClient(domain, apiKey, requestsPerSecond)
	cbName := "freshdesk-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps an upstream call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()

			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Domain returns the account subdomain.
func (cbc *CircuitBreakerClient) Domain() string {
	return cbc.client.Domain()
}

// FetchAllTickets pulls all ticket pages with circuit breaker protection.
func (cbc *CircuitBreakerClient) FetchAllTickets(ctx context.Context, params map[string]string, maxPages int) ([]models.Ticket, error) {
	return castResult[[]models.Ticket](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchAllTickets(ctx, params, maxPages)
	}))
}

// GetTicket fetches a single ticket with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	return castResult[*models.Ticket](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetTicket(ctx, id)
	}))
}

// ListConversations fetches a conversation thread with circuit breaker
// protection.
func (cbc *CircuitBreakerClient) ListConversations(ctx context.Context, ticketID int64) ([]models.Conversation, error) {
	return castResult[[]models.Conversation](cbc.execute(func() (interface{}, error) {
		return cbc.client.ListConversations(ctx, ticketID)
	}))
}

// GetContact fetches a contact with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetContact(ctx context.Context, id int64) (*models.Requester, error) {
	return castResult[*models.Requester](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetContact(ctx, id)
	}))
}
