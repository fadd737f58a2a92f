// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package insights

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Focus areas accepted by the insight generator.
const (
	FocusSummary     = "summary"
	FocusTrends      = "trends"
	FocusPerformance = "performance"
	FocusPriority    = "priority"
	FocusPredictive  = "predictive"
	FocusFull        = "full"
)

// ValidFocusArea reports whether the focus area is recognized. Unknown
// areas fall back to summary in SystemPrompt rather than erroring, so
// this is for request validation only.
func ValidFocusArea(area string) bool {
	switch area {
	case FocusSummary, FocusTrends, FocusPerformance, FocusPriority, FocusPredictive, FocusFull:
		return true
	}
	return false
}

const basePrompt = `You are an executive business analyst specializing in customer support operations.
Your role is to analyze support ticket data and provide clear, actionable insights for C-level executives.

Key guidelines:
- Focus on business impact and strategic implications
- Use clear, concise language appropriate for executives
- Highlight trends, patterns, and anomalies
- Provide specific, actionable recommendations
- Use emojis sparingly to highlight key sections
- Format output in markdown for readability`

var focusPrompts = map[string]string{
	FocusSummary: `
Focus on providing a high-level executive summary:
- Overall ticket volume trends
- Key performance indicators
- Most notable insights (2-3 items)
- Immediate action items if any
Keep it brief (3-4 paragraphs).`,

	FocusTrends: `
Focus on identifying trends and patterns:
- Volume trends over time
- Day-of-week patterns
- Platform/league distribution shifts
- Issue type evolution
- Response time trends
Provide forward-looking insights.`,

	FocusPerformance: `
Focus on team performance metrics:
- Response time analysis
- Resolution rate assessment
- Workload distribution
- Efficiency opportunities
- Bottleneck identification
Include specific improvement recommendations.`,

	FocusPriority: `
Focus on priority and risk analysis:
- Urgent/High priority ticket trends
- Critical issue identification
- Platform/league risk areas
- Resource allocation recommendations
- Escalation patterns
Highlight areas needing immediate attention.`,

	FocusPredictive: `
Focus on predictive insights and forecasting:
- Projected ticket volumes
- Potential capacity issues
- Seasonal patterns
- Resource planning recommendations
- Proactive measures to consider
Help plan for the future.`,

	FocusFull: `
Provide a comprehensive analysis covering:
1. Executive Summary
2. Volume & Trend Analysis
3. Performance Metrics
4. Priority & Risk Assessment
5. Platform/League Insights
6. Recommendations & Action Items
This should be a detailed report (8-12 paragraphs).`,
}

// SystemPrompt builds the system prompt for a focus area. Unknown areas
// get the summary prompt.
func SystemPrompt(focusArea string) string {
	focus, ok := focusPrompts[focusArea]
	if !ok {
		focus = focusPrompts[FocusSummary]
	}
	return basePrompt + "\n" + focus
}

// DateRange bounds the analysis period shown to the model.
type DateRange struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// BuildUserMessage renders the aggregated data into the analysis request
// sent as the user message. The data is expected to be pre-aggregated and
// PII-free; no raw ticket text goes to the model.
func BuildUserMessage(aggregatedData interface{}, dateRange DateRange, focusArea string) (string, error) {
	data, err := json.MarshalIndent(aggregatedData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode aggregated data: %w", err)
	}

	start := dateRange.StartDate
	if start == "" {
		start = "N/A"
	}
	end := dateRange.EndDate
	if end == "" {
		end = "N/A"
	}

	message := fmt.Sprintf(`Analyze the following support ticket data for the period: %s to %s

**Aggregated Data:**
`+"```json\n%s\n```"+`

Please provide insights focused on: **%s**

Note: All personally identifiable information (PII) has been removed from this data.`,
		start, end, data, focusArea)

	return message, nil
}
