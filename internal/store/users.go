// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package store persists dashboard user accounts in a single JSON file.
// Every mutation reads the whole document, modifies it in memory, and
// rewrites it in full. A mutex serializes the read-modify-write cycle so
// concurrent requests cannot interleave and lose updates.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/trevorlen/arms-support-dashboard-v2/internal/auth"
	"github.com/trevorlen/arms-support-dashboard-v2/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the given id or
	// username.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned on create or update when the
	// username is already taken by another account.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidRole is returned when a role outside the fixed role set
	// is supplied.
	ErrInvalidRole = errors.New("invalid role")
)

// UserStore manages the user document on disk.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore creates a store backed by the JSON file at path. The file
// is created lazily on first mutation.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// UserUpdate carries the partial fields for an update. Nil pointers leave
// the corresponding field untouched.
type UserUpdate struct {
	Username *string
	Password *string
	FullName *string
	Role     *string
}

// Create adds a new account. The password is hashed here; the caller
// passes plaintext. New accounts start with must_change_password set.
func (s *UserStore) Create(username, password, fullName, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			return nil, ErrDuplicateUsername
		}
	}

	user := models.User{
		ID:                 nextID(users),
		Username:           username,
		PasswordHash:       hash,
		FullName:           fullName,
		Role:               role,
		CreatedAt:          time.Now().UTC(),
		MustChangePassword: true,
	}

	users = append(users, user)
	if err := s.save(users); err != nil {
		return nil, err
	}

	return &user, nil
}

// Update applies a partial update to the account with the given id.
// Changing the password clears must_change_password.
func (s *UserStore) Update(id string, update UserUpdate) (*models.User, error) {
	if update.Role != nil && !models.ValidRole(*update.Role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, *update.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	if update.Username != nil && *update.Username != users[idx].Username {
		for i := range users {
			if i != idx && users[i].Username == *update.Username {
				return nil, ErrDuplicateUsername
			}
		}
		users[idx].Username = *update.Username
	}
	if update.FullName != nil {
		users[idx].FullName = *update.FullName
	}
	if update.Role != nil {
		users[idx].Role = *update.Role
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		users[idx].PasswordHash = hash
		users[idx].MustChangePassword = false
	}

	if err := s.save(users); err != nil {
		return nil, err
	}

	user := users[idx]
	return &user, nil
}

// Delete removes the account with the given id. Self-deletion checks live
// in the handler layer, not here.
func (s *UserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}

	filtered := users[:0]
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, u)
	}
	if !found {
		return ErrNotFound
	}

	return s.save(filtered)
}

// FindByUsername returns the account with the given username.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// FindByID returns the account with the given id.
func (s *UserStore) FindByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// List returns projections of every account, without password hashes.
func (s *UserStore) List() ([]models.UserProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}

	projections := make([]models.UserProjection, len(users))
	for i := range users {
		projections[i] = users[i].Projection()
	}
	return projections, nil
}

// TouchLastLogin records a successful login time on the account.
func (s *UserStore) TouchLastLogin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == id {
			now := time.Now().UTC()
			users[i].LastLogin = &now
			return s.save(users)
		}
	}
	return ErrNotFound
}

// load reads the full user document. A missing file is an empty store.
// Callers must hold the mutex.
func (s *UserStore) load() ([]models.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user store: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user store: %w", err)
	}
	return users, nil
}

// save rewrites the full user document. Callers must hold the mutex.
func (s *UserStore) save(users []models.User) error {
	if users == nil {
		users = []models.User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create user store directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user store: %w", err)
	}
	return nil
}

// nextID returns the next numeric id as a string: one past the current
// maximum, starting at 1.
func nextID(users []models.User) string {
	max := int64(0)
	for _, u := range users {
		if n, err := strconv.ParseInt(u.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}
