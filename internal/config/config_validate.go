// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"errors"
	"fmt"
)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateInterest(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return errors.New("DUCKDB_PATH is required")
	}
	if c.Database.QueryTimeout <= 0 {
		return errors.New("DUCKDB_QUERY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.MaxLimit < 1 {
		return fmt.Errorf("FEED_MAX_LIMIT must be at least 1, got %d", c.Feed.MaxLimit)
	}
	if c.Feed.DefaultLimit < 1 || c.Feed.DefaultLimit > c.Feed.MaxLimit {
		return fmt.Errorf("FEED_DEFAULT_LIMIT must be between 1 and %d, got %d", c.Feed.MaxLimit, c.Feed.DefaultLimit)
	}
	if c.Feed.AdCandidates < 0 {
		return errors.New("FEED_AD_CANDIDATES must not be negative")
	}
	if c.Feed.RepostWindow <= 0 {
		return errors.New("FEED_REPOST_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateInterest() error {
	switch c.Interest.Store {
	case "memory":
	case "lru":
		if c.Interest.Capacity < 1 {
			return fmt.Errorf("INTEREST_CAPACITY must be at least 1 for the lru store, got %d", c.Interest.Capacity)
		}
	case "badger":
		if c.Interest.StorePath == "" {
			return errors.New("INTEREST_STORE_PATH is required for the badger store")
		}
	default:
		return fmt.Errorf("INTEREST_STORE must be one of memory, lru, badger; got %q", c.Interest.Store)
	}
	if c.Interest.BatchSize < 1 {
		return fmt.Errorf("INTEREST_BATCH_SIZE must be at least 1, got %d", c.Interest.BatchSize)
	}
	if c.Interest.BatchRate < 0 {
		return errors.New("INTEREST_BATCH_RATE must not be negative")
	}
	if c.Interest.ActiveWindow <= 0 {
		return errors.New("INTEREST_ACTIVE_WINDOW must be positive")
	}
	if c.Interest.CandidateLimit < 1 || c.Interest.TopicLimit < 1 {
		return errors.New("INTEREST_CANDIDATE_LIMIT and INTEREST_TOPIC_LIMIT must be at least 1")
	}
	if c.Interest.BuildTimeout <= 0 {
		return errors.New("INTEREST_BUILD_TIMEOUT must be positive")
	}
	if c.Interest.RefreshInterval < 0 {
		return errors.New("INTEREST_REFRESH_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	switch c.Events.Driver {
	case "gochannel":
	case "nats":
		if c.Events.NATSURL == "" && !c.Events.Embedded {
			return errors.New("NATS_URL is required when EVENTS_DRIVER=nats without an embedded server")
		}
	default:
		return fmt.Errorf("EVENTS_DRIVER must be gochannel or nats, got %q", c.Events.Driver)
	}
	if c.Events.Topic == "" {
		return errors.New("EVENTS_TOPIC is required when events are enabled")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return errors.New("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return errors.New("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
