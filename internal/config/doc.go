// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package config loads and validates Feedrank configuration.

Configuration is layered with Koanf v2 (highest priority wins):

 1. Environment variables (explicitly mapped, see envTransformFunc)
 2. Config file (config.yaml, or the file named by CONFIG_PATH)
 3. Built-in defaults (defaultConfig)

# Sections

  - server:   HTTP bind address, timeouts, environment name
  - database: DuckDB path and tuning, query timeout, circuit breaker
  - logging:  zerolog level, format, caller
  - feed:     page size limits, ad slate size, repost window
  - interest: profile store backend, bulk build batching and pacing
  - views:    view de-duplication window
  - events:   view event publishing (in-process or NATS JetStream)
  - security: JWT secret, rate limiting, CORS, admin authorization

# Common Environment Variables

	HTTP_PORT=8080
	DUCKDB_PATH=/data/feedrank.duckdb
	INTEREST_STORE=badger
	INTEREST_STORE_PATH=/data/interests
	EVENTS_DRIVER=nats
	JWT_SECRET=<32+ characters>
	CORS_ORIGINS=https://app.example.com,https://admin.example.com
*/
package config
