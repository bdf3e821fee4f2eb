// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

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

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/feedrank/config.yaml",
	"/etc/feedrank/config.yml",
}

// ConfigPathEnvVar names the environment variable holding an explicit config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:            "/data/feedrank.duckdb",
			MaxMemory:       "2GB",
			Threads:         0, // 0 = runtime.NumCPU()
			QueryTimeout:    30 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Feed: FeedConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
			AdCandidates: 50,
			RepostWindow: 7 * 24 * time.Hour,
		},
		Interest: InterestConfig{
			Store:          "memory",
			Capacity:       100000,
			StorePath:      "/data/interests",
			BatchSize:      500,
			BatchRate:      0,
			ActiveWindow:   30 * 24 * time.Hour,
			CandidateLimit: 50,
			TopicLimit:     100,
			BuildTimeout:   2 * time.Minute,
			WarmOnStartup:  true,
		},
		Views: ViewsConfig{
			CountWindow: time.Minute,
		},
		Events: EventsConfig{
			Enabled:         false,
			Driver:          "gochannel",
			Topic:           "feed.views.recorded",
			NATSURL:         "nats://127.0.0.1:4222",
			MaxReconnects:   -1,
			ReconnectWait:   2 * time.Second,
			Embedded:        false,
			StoreDir:        "/data/nats",
			Host:            "127.0.0.1",
			Port:            4222,
			MaxMemory:       256 << 20,
			MaxStore:        1 << 30,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 layering:
// defaults, then the config file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
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

// sliceConfigPaths are keys whose env values are comma separated lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
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
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config keys.
// Unmapped variables return "" and are ignored.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_timeout":          "server.timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",
		"environment":           "server.environment",

		"duckdb_path":             "database.path",
		"duckdb_max_memory":       "database.max_memory",
		"duckdb_threads":          "database.threads",
		"duckdb_query_timeout":    "database.query_timeout",
		"duckdb_breaker_failures": "database.breaker_failures",
		"duckdb_breaker_timeout":  "database.breaker_timeout",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		"feed_default_limit": "feed.default_limit",
		"feed_max_limit":     "feed.max_limit",
		"feed_ad_candidates": "feed.ad_candidates",
		"feed_repost_window": "feed.repost_window",

		"interest_store":            "interest.store",
		"interest_capacity":         "interest.capacity",
		"interest_store_path":       "interest.store_path",
		"interest_batch_size":       "interest.batch_size",
		"interest_batch_rate":       "interest.batch_rate",
		"interest_active_window":    "interest.active_window",
		"interest_candidate_limit":  "interest.candidate_limit",
		"interest_topic_limit":      "interest.topic_limit",
		"interest_build_timeout":    "interest.build_timeout",
		"interest_warm_on_startup":  "interest.warm_on_startup",
		"interest_refresh_interval": "interest.refresh_interval",

		"views_count_window": "views.count_window",

		"events_enabled":          "events.enabled",
		"events_driver":           "events.driver",
		"events_topic":            "events.topic",
		"nats_url":                "events.nats_url",
		"nats_max_reconnects":     "events.max_reconnects",
		"nats_reconnect_wait":     "events.reconnect_wait",
		"nats_embedded":           "events.embedded",
		"nats_store_dir":          "events.store_dir",
		"nats_host":               "events.host",
		"nats_port":               "events.port",
		"nats_max_memory":         "events.max_memory",
		"nats_max_store":          "events.max_store",
		"events_breaker_failures": "events.breaker_failures",
		"events_breaker_timeout":  "events.breaker_timeout",

		"jwt_secret":          "security.jwt_secret",
		"rate_limit_requests": "security.rate_limit_requests",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"casbin_model_path":   "security.casbin_model_path",
		"casbin_policy_path":  "security.casbin_policy_path",
	}

	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
