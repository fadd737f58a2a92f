// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/arms-dashboard/config.yaml",
	"/etc/arms-dashboard/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			Environment:     "development",
		},
		Freshdesk: FreshdeskConfig{
			Domain:            "",
			APIKey:            "",
			MaxPages:          10,
			RequestsPerSecond: 4,
		},
		DevOps: DevOpsConfig{
			Organization: "",
			Project:      "",
			PAT:          "",
			Tag:          "Production Support",
		},
		Insights: InsightsConfig{
			APIKey:      "",
			Model:       "claude-3-5-sonnet-20241022",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		Auth: AuthConfig{
			JWTSecret:         "",
			TokenExpiry:       24 * time.Hour,
			UsersFile:         "data/users.json",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			LoginRateLimit:    5,
			LoginRateWindow:   5 * time.Minute,
			RateLimitDisabled: false,
		},
		Cache: CacheConfig{
			CurrentTTL:    5 * time.Minute,
			HistoricalTTL: time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// FRESHDESK_API_KEY -> freshdesk.api_key, JWT_SECRET_KEY -> auth.jwt_secret
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive from env vars as strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are dropped so random environment noise never pollutes
// the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Freshdesk
		"freshdesk_domain":    "freshdesk.domain",
		"freshdesk_api_key":   "freshdesk.api_key",
		"freshdesk_max_pages": "freshdesk.max_pages",
		"freshdesk_rps":       "freshdesk.requests_per_second",

		// Azure DevOps
		"azure_devops_org":     "devops.organization",
		"azure_devops_project": "devops.project",
		"azure_devops_pat":     "devops.pat",
		"azure_devops_tag":     "devops.tag",

		// Insights
		"anthropic_api_key":    "insights.api_key",
		"insights_model":       "insights.model",
		"insights_max_tokens":  "insights.max_tokens",
		"insights_temperature": "insights.temperature",

		// Auth
		"jwt_secret_key":      "auth.jwt_secret",
		"token_expiry":        "auth.token_expiry",
		"users_file":          "auth.users_file",
		"rate_limit_requests": "auth.rate_limit_reqs",
		"rate_limit_window":   "auth.rate_limit_window",
		"login_rate_limit":    "auth.login_rate_limit",
		"login_rate_window":   "auth.login_rate_window",
		"disable_rate_limit":  "auth.rate_limit_disabled",

		// Cache
		"cache_current_ttl":    "cache.current_ttl",
		"cache_historical_ttl": "cache.historical_ttl",

		// Server
		"http_host":          "server.host",
		"http_port":          "server.port",
		"http_read_timeout":  "server.read_timeout",
		"http_write_timeout": "server.write_timeout",
		"shutdown_timeout":   "server.shutdown_timeout",
		"cors_origins":       "server.cors_origins",
		"environment":        "server.environment",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
