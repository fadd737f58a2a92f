// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/auth"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/logging"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/store"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/validation"
)

// ListUsers returns every account, hashes excluded. Admin only; the role
// gate sits in the router.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list users")
		respondError(w, http.StatusInternalServerError, "Failed to read user store")
		return
	}
	respondJSON(w, r, http.StatusOK, users)
}

// GetUser returns one account by id.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to read user store")
		return
	}
	respondJSON(w, r, http.StatusOK, user.Projection())
}

// CreateUser adds an account. The new user logs in with the provided
// password and is forced to change it.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}

	user, err := h.users.Create(req.Username, req.Password, req.FullName, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			respondError(w, http.StatusBadRequest, "Username already taken")
		case errors.Is(err, store.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, "Invalid role")
		default:
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to create user")
			respondError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	logging.Ctx(r.Context()).Info().Str("username", user.Username).Str("role", user.Role).Msg("User created")
	respondJSON(w, r, http.StatusCreated, user.Projection())
}

// UpdateUser applies a partial update to an account.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}

	user, err := h.users.Update(chi.URLParam(r, "id"), store.UserUpdate{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrDuplicateUsername):
			respondError(w, http.StatusBadRequest, "Username already taken")
		case errors.Is(err, store.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, "Invalid role")
		default:
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to update user")
			respondError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	respondJSON(w, r, http.StatusOK, user.Projection())
}

// DeleteUser removes an account. An actor may never delete their own
// account, Admin or not.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	claims := auth.ClaimsFromContext(r.Context())
	if claims != nil && claims.UserID == id {
		respondError(w, http.StatusForbidden, "Cannot delete your own account")
		return
	}

	if err := h.users.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to delete user")
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", id).Msg("User deleted")
	respondJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
