// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type

API Metrics:
  - api_requests_total: Requests by method, endpoint and status code (counter)
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)

Feed Metrics:
  - feed_requests_total: Feed assemblies by status (counter)
  - feed_request_duration_seconds: End-to-end feed latency (histogram)
  - feed_shape_duration_seconds: Per-shape retrieval latency (histogram)
  - feed_candidates_total: Candidates returned per shape (counter)
  - feed_items: Organic items per response (histogram)

Interest Profile Metrics:
  - interest_profiles: Cached profiles (gauge)
  - interest_cache_lookups_total: Lookups by result hit/miss (counter)
  - interest_builds_total: Per-user builds by result (counter)
  - interest_build_duration_seconds: Build run latency (histogram)

View Ingestion Metrics:
  - views_enqueued_total, views_persisted_total, views_dropped_total: by kind
  - views_rejected_total: identity mismatches (counter)
  - views_queue_depth: pending events (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: by name and result (counter)
  - circuit_breaker_state_transitions_total: by name, from, to (counter)

Event Metrics:
  - events_published_total: by topic and result (counter)

# Example Alerts

	groups:
	  - name: feedrank
	    rules:
	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state > 0
	        for: 1m
	      - alert: ViewsDropping
	        expr: rate(views_dropped_total[5m]) > 0
	        for: 5m
*/
package metrics
