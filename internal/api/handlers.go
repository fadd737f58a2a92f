// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package api wires the HTTP surface: route registration, request
// parsing, and the handlers that orchestrate cache, upstream clients,
// aggregation, and auth.
package api

import (
	"time"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/auth"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/azdevops"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/cache"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/config"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/freshdesk"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/insights"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/store"
)

// Handler carries the per-process dependencies shared by all request
// handlers. Constructed once at startup; everything it holds is safe for
// concurrent use.
type Handler struct {
	cfg       *config.Config
	cache     *cache.Cache
	users     *store.UserStore
	tokens    *auth.TokenService
	freshdesk freshdesk.Service
	devops    azdevops.Service
	insights  insights.Service
	startTime time.Time
}

// NewHandler assembles the handler from its collaborators. Services for
// unconfigured upstreams are still non-nil; handlers gate on the config
// flags and answer 500 per request, so a partially configured deployment
// starts fine and degrades per endpoint.
func NewHandler(
	cfg *config.Config,
	c *cache.Cache,
	users *store.UserStore,
	tokens *auth.TokenService,
	fd freshdesk.Service,
	devops azdevops.Service,
	ins insights.Service,
) *Handler {
	return &Handler{
		cfg:       cfg,
		cache:     c,
		users:     users,
		tokens:    tokens,
		freshdesk: fd,
		devops:    devops,
		insights:  ins,
		startTime: time.Now(),
	}
}
