// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package main is the entry point for the Feedrank server.

Feedrank assembles personalized contract feeds from six candidate queries
over DuckDB, ranks them by interest, conversion, importance and freshness,
and records contract views through an asynchronous ingestion queue.

# Application Architecture

	RootSupervisor ("feedrank")
	├── DataSupervisor ("data-layer")
	│   └── Profile service (warm cache on startup, periodic refresh)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Embedded NATS server (optional)
	│   └── Task runner (view queue drains)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Component initialization order:

 1. Configuration: koanf v2 with defaults, optional config.yaml and environment
 2. Logging: zerolog
 3. Database: DuckDB with schema creation
 4. Interest profile store and builder
 5. Feed engine
 6. Event bus (gochannel or NATS JetStream, optionally embedded)
 7. View ingestion queue
 8. Authentication (JWT) and authorization (Casbin)
 9. HTTP router and supervisor tree

# Signals

SIGINT and SIGTERM cancel the root context; the supervisor stops every
service within the configured shutdown timeout and the store, profile cache
and event bus are closed afterwards.

# Example

	JWT_SECRET=$(openssl rand -hex 32) \
	DUCKDB_PATH=/data/feedrank.duckdb \
	INTEREST_STORE=badger INTEREST_STORE_PATH=/data/profiles \
	./feedrank
*/
package main
