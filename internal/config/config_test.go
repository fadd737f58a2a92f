// ARMS Support Dashboard - Helpdesk and DevOps Analytics Facade
// Copyright 2026 Trevor Len (trevorlen)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trevorlen/arms-support-dashboard-v2

package config

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 70000")
	}
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.CurrentTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero current TTL")
	}

	cfg = defaultConfig()
	cfg.Cache.HistoricalTTL = -time.Minute
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative historical TTL")
	}
}

func TestMissingCredentialsAreNotFatal(t *testing.T) {
	cfg := defaultConfig()
	cfg.Freshdesk.APIKey = ""
	cfg.Freshdesk.Domain = ""
	cfg.Auth.JWTSecret = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("missing credentials must not fail validation: %v", err)
	}
	if cfg.Freshdesk.Configured() {
		t.Error("Freshdesk should report unconfigured")
	}
	if cfg.Auth.TokenConfigured() {
		t.Error("token service should report unconfigured")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"FRESHDESK_API_KEY", "freshdesk.api_key"},
		{"FRESHDESK_DOMAIN", "freshdesk.domain"},
		{"AZURE_DEVOPS_ORG", "devops.organization"},
		{"AZURE_DEVOPS_PAT", "devops.pat"},
		{"ANTHROPIC_API_KEY", "insights.api_key"},
		{"JWT_SECRET_KEY", "auth.jwt_secret"},
		{"USERS_FILE", "auth.users_file"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"SOME_RANDOM_VAR", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestFreshdeskBaseURL(t *testing.T) {
	cfg := FreshdeskConfig{Domain: "arms"}
	want := "https://arms.freshdesk.com/api/v2"
	if got := cfg.BaseURL(); got != want {
		t.Errorf("BaseURL() = %q, want %q", got, want)
	}
}
