// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package insights turns aggregated ticket statistics into executive
// narrative via the Anthropic Messages API. Only pre-aggregated, PII-free
// data is sent to the model.
package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/metrics"
)

// ErrNotConfigured is returned when no Anthropic API key is set. Callers
// map it to a per-request 500.
var ErrNotConfigured = errors.New("ANTHROPIC_API_KEY not configured")

// TokensUsed reports model token consumption for one generation.
type TokensUsed struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// Response is the /generate_insights response body.
type Response struct {
	Insights   string     `json:"insights"`
	FocusArea  string     `json:"focus_area"`
	DateRange  DateRange  `json:"date_range"`
	TokensUsed TokensUsed `json:"tokens_used"`
}

// Service is the insight-generator contract the API handlers depend on.
type Service interface {
	Generate(ctx context.Context, aggregatedData interface{}, dateRange DateRange, focusArea string) (*Response, error)
	Configured() bool
}

// Client calls the Anthropic Messages API.
type Client struct {
	client      anthropic.Client
	configured  bool
	model       string
	maxTokens   int64
	temperature float64
}

var _ Service = (*Client)(nil)

// NewClient creates an insight generator. An empty API key is legal; the
// client reports unconfigured and Generate fails per call.
func NewClient(apiKey, model string, maxTokens int64, temperature float64) *Client {
	return &Client{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		configured:  apiKey != "",
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.configured
}

// Generate produces a narrative analysis of the aggregated data for the
// given focus area.
func (c *Client) Generate(ctx context.Context, aggregatedData interface{}, dateRange DateRange, focusArea string) (*Response, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}

	userMessage, err := BuildUserMessage(aggregatedData, dateRange, focusArea)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("focus_area", focusArea).Msg("Calling Claude API")

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt(focusArea)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		metrics.InsightsRequests.WithLabelValues(focusArea, "failure").Inc()
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}

	if len(message.Content) == 0 {
		metrics.InsightsRequests.WithLabelValues(focusArea, "failure").Inc()
		return nil, errors.New("model returned an empty response")
	}

	metrics.InsightsRequests.WithLabelValues(focusArea, "success").Inc()
	metrics.InsightsTokensUsed.WithLabelValues("input").Add(float64(message.Usage.InputTokens))
	metrics.InsightsTokensUsed.WithLabelValues("output").Add(float64(message.Usage.OutputTokens))

	return &Response{
		Insights:  message.Content[0].Text,
		FocusArea: focusArea,
		DateRange: dateRange,
		TokensUsed: TokensUsed{
			Input:  message.Usage.InputTokens,
			Output: message.Usage.OutputTokens,
		},
	}, nil
}
