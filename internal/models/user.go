// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package models

import "time"

// Roles assignable to dashboard users.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleViewer  = "Viewer"
)

// ValidRole reports whether role belongs to the fixed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// User is a dashboard account persisted in the flat-file user store. IDs
// are numeric but string-encoded for stability in the JSON document.
type User struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	PasswordHash       string     `json:"password_hash"`
	FullName           string     `json:"full_name"`
	Role               string     `json:"role"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLogin          *time.Time `json:"last_login"`
	MustChangePassword bool       `json:"must_change_password"`
}

// UserProjection is the externally visible shape of a User. The password
// hash never leaves the store in any API response.
type UserProjection struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	FullName           string     `json:"full_name"`
	Role               string     `json:"role"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLogin          *time.Time `json:"last_login"`
	MustChangePassword bool       `json:"must_change_password"`
}

// Projection strips the password hash for API responses.
func (u *User) Projection() UserProjection {
	return UserProjection{
		ID:                 u.ID,
		Username:           u.Username,
		FullName:           u.FullName,
		Role:               u.Role,
		CreatedAt:          u.CreatedAt,
		LastLogin:          u.LastLogin,
		MustChangePassword: u.MustChangePassword,
	}
}
