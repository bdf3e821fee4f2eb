// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Interest.Store != "memory" {
		t.Errorf("Interest.Store = %q, want memory", cfg.Interest.Store)
	}
	if cfg.Interest.BatchSize != 500 {
		t.Errorf("Interest.BatchSize = %d, want 500", cfg.Interest.BatchSize)
	}
	if cfg.Interest.ActiveWindow != 30*24*time.Hour {
		t.Errorf("Interest.ActiveWindow = %v, want 720h", cfg.Interest.ActiveWindow)
	}
	if cfg.Interest.CandidateLimit != 50 || cfg.Interest.TopicLimit != 100 {
		t.Errorf("Interest limits = %d/%d, want 50/100", cfg.Interest.CandidateLimit, cfg.Interest.TopicLimit)
	}
	if cfg.Feed.AdCandidates != 50 {
		t.Errorf("Feed.AdCandidates = %d, want 50", cfg.Feed.AdCandidates)
	}
	if cfg.Feed.RepostWindow != 7*24*time.Hour {
		t.Errorf("Feed.RepostWindow = %v, want 168h", cfg.Feed.RepostWindow)
	}
	if cfg.Views.CountWindow != time.Minute {
		t.Errorf("Views.CountWindow = %v, want 1m", cfg.Views.CountWindow)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("INTEREST_STORE", "lru")
	t.Setenv("INTEREST_CAPACITY", "250")
	t.Setenv("VIEWS_COUNT_WINDOW", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SOME_UNRELATED_VAR", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Interest.Store != "lru" || cfg.Interest.Capacity != 250 {
		t.Errorf("Interest = %q/%d, want lru/250", cfg.Interest.Store, cfg.Interest.Capacity)
	}
	if cfg.Views.CountWindow != 90*time.Second {
		t.Errorf("Views.CountWindow = %v, want 90s", cfg.Views.CountWindow)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
feed:
  default_limit: 10
  max_limit: 40
interest:
  store: badger
  store_path: /tmp/interests
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("FEED_MAX_LIMIT", "50")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Feed.DefaultLimit != 10 {
		t.Errorf("Feed.DefaultLimit = %d, want 10", cfg.Feed.DefaultLimit)
	}
	// env wins over file
	if cfg.Feed.MaxLimit != 50 {
		t.Errorf("Feed.MaxLimit = %d, want 50", cfg.Feed.MaxLimit)
	}
	if cfg.Interest.Store != "badger" || cfg.Interest.StorePath != "/tmp/interests" {
		t.Errorf("Interest = %q/%q", cfg.Interest.Store, cfg.Interest.StorePath)
	}
}

func TestLoadWithKoanf_InvalidValue(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("INTEREST_STORE", "redis")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for unknown store")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"DUCKDB_PATH":        "database.path",
		"jwt_secret":         "security.jwt_secret",
		"NATS_EMBEDDED":      "events.embedded",
		"DISABLE_RATE_LIMIT": "security.rate_limit_disabled",
		"PATH":               "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
