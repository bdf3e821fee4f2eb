// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package database provides the DuckDB-backed data store for feed ranking and
view tracking.

# Overview

The package owns the schema and every query the service issues:
  - Candidate retrieval for the six feed shapes (conversion, importance,
    freshness, followed, sponsored, reposts)
  - The ad auction slate
  - Baseline topic interests, group memberships and recently active users
    for the interest profile builder
  - Private-user blocklists
  - The rate-limited view counter upsert

# Query Composition

All six feed shapes are assembled with query.SelectBuilder from typed
fragments. The exclusion predicates (disinterest, ignore list, blocked
creators, blocked contracts, blocked group slugs) live in one function,
exclusionFilter, and are injected into every shape so the filters cannot drift
apart. Placeholders are always bound; clause text never contains input.

# Resilience

Every statement runs under a per-query timeout (database.query_timeout) and
through a sony/gobreaker circuit breaker. When the breaker is open, calls fail
fast with ErrBreakerOpen instead of piling onto a struggling store.

# Time

Functions that compare against the current time take "now" from the caller.
The store never calls CURRENT_TIMESTAMP, which keeps results deterministic in
tests and consistent across the shapes of one feed request.

# Usage Example

	db, err := database.New(&cfg.Database)
	if err != nil {
	    log.Fatal(err)
	}
	defer db.Close()

	rows, err := db.Candidates(ctx, models.ShapeConversion, database.FeedParams{
	    UserID:    "u1",
	    Interests: profile,
	    Now:       time.Now(),
	    Limit:     20,
	})
*/
package database
