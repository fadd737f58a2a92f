// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

// Package config defines the application configuration and its layered
// loading (defaults, optional YAML file, environment variables).
//
// Missing upstream credentials are deliberately NOT a load failure: the
// service starts regardless and the affected endpoints answer 500 until the
// credentials appear. Only structurally invalid values (bad port, negative
// TTL) fail validation.
package config

import (
	"fmt"
	"time"
)

// Version is the API version reported by /health and /stats.
const Version = "2.0.0"

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Freshdesk FreshdeskConfig `koanf:"freshdesk"`
	DevOps    DevOpsConfig    `koanf:"devops"`
	Insights  InsightsConfig  `koanf:"insights"`
	Auth      AuthConfig      `koanf:"auth"`
	Cache     CacheConfig     `koanf:"cache"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	Environment     string        `koanf:"environment"`
}

// FreshdeskConfig holds helpdesk upstream settings.
type FreshdeskConfig struct {
	// Domain is the Freshdesk subdomain, e.g. "arms" for
	// arms.freshdesk.com.
	Domain string `koanf:"domain"`
	APIKey string `koanf:"api_key"`

	// MaxPages caps sequential pagination on current-period queries.
	// Historical scans ignore the cap (0 = unbounded).
	MaxPages int `koanf:"max_pages"`

	// RequestsPerSecond paces outbound calls during full scans.
	RequestsPerSecond int `koanf:"requests_per_second"`
}

// Configured reports whether both credentials required to reach Freshdesk
// are present.
func (c FreshdeskConfig) Configured() bool {
	return c.Domain != "" && c.APIKey != ""
}

// BaseURL returns the Freshdesk API root for the configured domain.
func (c FreshdeskConfig) BaseURL() string {
	return fmt.Sprintf("https://%s.freshdesk.com/api/v2", c.Domain)
}

// DevOpsConfig holds Azure DevOps upstream settings.
type DevOpsConfig struct {
	Organization string `koanf:"organization"`
	Project      string `koanf:"project"`
	PAT          string `koanf:"pat"`

	// Tag selects the work items surfaced by /devops.
	Tag string `koanf:"tag"`
}

// Configured reports whether the work-item endpoints can reach Azure DevOps.
func (c DevOpsConfig) Configured() bool {
	return c.Organization != "" && c.Project != "" && c.PAT != ""
}

// InsightsConfig holds the LLM insight generator settings.
type InsightsConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	MaxTokens   int64   `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

// Configured reports whether insight generation is available.
func (c InsightsConfig) Configured() bool {
	return c.APIKey != ""
}

// AuthConfig holds token and user-store settings.
type AuthConfig struct {
	// JWTSecret signs session tokens. An empty secret is not a startup
	// failure; auth endpoints answer 500 until it is set.
	JWTSecret string `koanf:"jwt_secret"`

	TokenExpiry time.Duration `koanf:"token_expiry"`

	// UsersFile is the JSON document holding all user records.
	UsersFile string `koanf:"users_file"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	LoginRateLimit    int           `koanf:"login_rate_limit"`
	LoginRateWindow   time.Duration `koanf:"login_rate_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// TokenConfigured reports whether token signing is possible.
func (c AuthConfig) TokenConfigured() bool {
	return c.JWTSecret != ""
}

// CacheConfig holds TTLs for the upstream response cache.
type CacheConfig struct {
	// CurrentTTL applies to current-period ticket queries.
	CurrentTTL time.Duration `koanf:"current_ttl"`

	// HistoricalTTL applies to full historical scans.
	HistoricalTTL time.Duration `koanf:"historical_ttl"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks structural invariants. Missing credentials pass; they are
// surfaced per request instead.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Cache.CurrentTTL <= 0 {
		return fmt.Errorf("cache.current_ttl must be positive, got %s", c.Cache.CurrentTTL)
	}
	if c.Cache.HistoricalTTL <= 0 {
		return fmt.Errorf("cache.historical_ttl must be positive, got %s", c.Cache.HistoricalTTL)
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("auth.token_expiry must be positive, got %s", c.Auth.TokenExpiry)
	}
	if c.Freshdesk.MaxPages < 0 {
		return fmt.Errorf("freshdesk.max_pages must not be negative, got %d", c.Freshdesk.MaxPages)
	}
	return nil
}
