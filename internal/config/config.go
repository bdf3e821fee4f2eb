// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import "time"

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Feed     FeedConfig     `koanf:"feed"`
	Interest InterestConfig `koanf:"interest"`
	Views    ViewsConfig    `koanf:"views"`
	Events   EventsConfig   `koanf:"events"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// QueryTimeout bounds every store query issued on behalf of a request.
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// BreakerFailures is the number of consecutive failed queries that opens
	// the circuit breaker. Zero disables the breaker.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// FeedConfig holds feed request bounds.
type FeedConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// AdCandidates is the size of the auction slate fed to the sponsored shape.
	AdCandidates int `koanf:"ad_candidates"`

	// RepostWindow is how far back reposts from followed users are considered.
	RepostWindow time.Duration `koanf:"repost_window"`
}

// InterestConfig holds interest profile store and builder settings.
type InterestConfig struct {
	// Store selects the profile store backend: memory, lru, or badger.
	Store     string `koanf:"store"`
	Capacity  int    `koanf:"capacity"`
	StorePath string `koanf:"store_path"`

	BatchSize int `koanf:"batch_size"`

	// BatchRate paces bulk builds in batches per second. Zero means unpaced.
	BatchRate float64 `koanf:"batch_rate"`

	// ActiveWindow is the trailing window that defines a recently active user.
	ActiveWindow time.Duration `koanf:"active_window"`

	// CandidateLimit bounds the interactions scanned per user, TopicLimit the
	// number of topics kept in the baseline profile.
	CandidateLimit int `koanf:"candidate_limit"`
	TopicLimit     int `koanf:"topic_limit"`

	// BuildTimeout bounds a lazy build shared by concurrent feed requests.
	// It runs detached from any single request.
	BuildTimeout time.Duration `koanf:"build_timeout"`

	WarmOnStartup   bool          `koanf:"warm_on_startup"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// ViewsConfig holds view ingestion settings.
type ViewsConfig struct {
	// CountWindow is the minimum gap between two counted views of the same
	// kind by the same signed-in user on the same contract.
	CountWindow time.Duration `koanf:"count_window"`
}

// EventsConfig holds view event publishing settings.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`

	// Driver selects the transport: gochannel (in-process) or nats.
	Driver string `koanf:"driver"`
	Topic  string `koanf:"topic"`

	NATSURL       string        `koanf:"nats_url"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`

	// Embedded starts an in-process NATS JetStream server.
	Embedded  bool   `koanf:"embedded"`
	StoreDir  string `koanf:"store_dir"`
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	MaxMemory int64  `koanf:"max_memory"`
	MaxStore  int64  `koanf:"max_store"`

	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds identity, rate limiting and CORS settings.
type SecurityConfig struct {
	// JWTSecret verifies HS256 bearer tokens. When empty every request is
	// treated as anonymous.
	JWTSecret string `koanf:"jwt_secret"`

	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`

	// CasbinModelPath and CasbinPolicyPath override the embedded admin
	// authorization model and policy.
	CasbinModelPath  string `koanf:"casbin_model_path"`
	CasbinPolicyPath string `koanf:"casbin_policy_path"`
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}

// Load reads configuration from defaults, an optional config file, and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
