// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/auth"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/middleware"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

// Router assembles the chi router: shared middleware, public data routes,
// the auth group with its tighter login limiter, and the Admin-only user
// CRUD group.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if !h.cfg.Auth.RateLimitDisabled {
		r.Use(httprate.LimitByIP(h.cfg.Auth.RateLimitReqs, h.cfg.Auth.RateLimitWindow))
	}

	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/tickets", h.Tickets)
	r.Get("/ticket/{id}", h.TicketDetail)
	r.Get("/summary", h.Summary)
	r.Get("/devops", h.DevOpsWorkItems)
	r.Get("/devops/{id}", h.DevOpsWorkItemDetail)
	r.Post("/generate_insights", h.GenerateInsights)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Brute-force guard on top of the global limiter.
			if !h.cfg.Auth.RateLimitDisabled {
				r.Use(httprate.LimitByIP(h.cfg.Auth.LoginRateLimit, h.cfg.Auth.LoginRateWindow))
			}
			r.Post("/login", h.Login)
		})
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.tokens.Authenticate)
			r.Get("/me", h.Me)
			r.Post("/change-password", h.ChangePassword)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(h.tokens.Authenticate)
		r.Use(auth.RequireRole(models.RoleAdmin))

		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	return r
}
