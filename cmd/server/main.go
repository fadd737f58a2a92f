// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Command server runs the ARMS support dashboard API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/api"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/auth"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/azdevops"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/cache"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/config"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/freshdesk"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/insights"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", config.Version).
		Str("environment", cfg.Server.Environment).
		Bool("freshdesk_configured", cfg.Freshdesk.Configured()).
		Bool("devops_configured", cfg.DevOps.Configured()).
		Bool("insights_configured", cfg.Insights.Configured()).
		Msg("Starting ARMS support dashboard API")

	// Missing upstream credentials degrade to per-request 500s, so the
	// server starts with whatever subset is configured.
	handler := api.NewHandler(
		cfg,
		cache.New(cfg.Cache.CurrentTTL),
		store.NewUserStore(cfg.Auth.UsersFile),
		auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry),
		freshdesk.NewCircuitBreakerClient(cfg.Freshdesk.Domain, cfg.Freshdesk.APIKey, cfg.Freshdesk.RequestsPerSecond),
		azdevops.NewClient(cfg.DevOps.Organization, cfg.DevOps.Project, cfg.DevOps.PAT),
		insights.NewClient(cfg.Insights.APIKey, cfg.Insights.Model, cfg.Insights.MaxTokens, cfg.Insights.Temperature),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		_ = server.Close()
	}

	logging.Info().Msg("Server stopped")
}
