// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package api

import "github.com/trevorlen/arms-support-dashboard-v2/internal/insights"

// LoginRequest is the /auth/login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1"`
}

// ChangePasswordRequest is the /auth/change-password body. The current
// password is re-verified so a leaked token alone cannot rotate the
// credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// CreateUserRequest is the POST /users body.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,max=128"`
	Role     string `json:"role" validate:"required,oneof=Admin Manager Viewer"`
}

// UpdateUserRequest is the PUT /users/{id} body. Omitted fields are left
// untouched.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=128"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=Admin Manager Viewer"`
}

// InsightsRequest is the /generate_insights body. AggregatedData is the
// caller-supplied summary payload, passed through to the model verbatim.
type InsightsRequest struct {
	AggregatedData interface{}        `json:"aggregated_data" validate:"required"`
	FocusArea      string             `json:"focus_area,omitempty"`
	DateRange      insights.DateRange `json:"date_range,omitempty"`
}

// LoginResponse is the /auth/login success body.
type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}
