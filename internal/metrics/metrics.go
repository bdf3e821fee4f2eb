// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Feed Metrics
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed requests",
		},
		[]string{"status"}, // "success", "error"
	)

	FeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_request_duration_seconds",
			Help:    "End-to-end duration of feed assembly in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	FeedShapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_shape_duration_seconds",
			Help:    "Duration of a single candidate retrieval query in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"shape"},
	)

	FeedCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_candidates_total",
			Help: "Total number of candidates returned per retrieval shape",
		},
		[]string{"shape"},
	)

	FeedItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_items",
			Help:    "Number of deduplicated organic items per feed response",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 250, 500},
		},
	)

	// Interest Profile Metrics
	InterestProfiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interest_profiles",
			Help: "Current number of cached interest profiles",
		},
	)

	InterestCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interest_cache_lookups_total",
			Help: "Total number of interest profile lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	InterestBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interest_builds_total",
			Help: "Total number of per-user interest profile builds",
		},
		[]string{"result"}, // "success", "failure"
	)

	InterestBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interest_build_duration_seconds",
			Help:    "Duration of interest profile build runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	// View Ingestion Metrics
	ViewsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "views_enqueued_total",
			Help: "Total number of view events accepted into the ingestion queue",
		},
		[]string{"kind"},
	)

	ViewsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "views_persisted_total",
			Help: "Total number of view events written to the store",
		},
		[]string{"kind"},
	)

	ViewsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "views_dropped_total",
			Help: "Total number of view events dropped after a failed write",
		},
		[]string{"kind"},
	)

	ViewsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "views_rejected_total",
			Help: "Total number of view events rejected for an identity mismatch",
		},
	)

	ViewQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "views_queue_depth",
			Help: "Current number of view events waiting to be written",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"topic", "result"}, // result: "success", "failure"
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeedRequest records the outcome and latency of one feed assembly.
func RecordFeedRequest(duration time.Duration, items int, err error) {
	FeedDuration.Observe(duration.Seconds())
	if err != nil {
		FeedRequests.WithLabelValues("error").Inc()
		return
	}
	FeedRequests.WithLabelValues("success").Inc()
	FeedItems.Observe(float64(items))
}

// RecordFeedShape records a single retrieval query.
func RecordFeedShape(shape string, duration time.Duration, candidates int) {
	FeedShapeDuration.WithLabelValues(shape).Observe(duration.Seconds())
	FeedCandidates.WithLabelValues(shape).Add(float64(candidates))
}

// RecordInterestLookup records a profile cache hit or miss.
func RecordInterestLookup(hit bool) {
	if hit {
		InterestCacheLookups.WithLabelValues("hit").Inc()
	} else {
		InterestCacheLookups.WithLabelValues("miss").Inc()
	}
}

// RecordInterestBuild records a per-user build outcome.
func RecordInterestBuild(err error) {
	if err != nil {
		InterestBuilds.WithLabelValues("failure").Inc()
		return
	}
	InterestBuilds.WithLabelValues("success").Inc()
}

// RecordCircuitBreakerResult records a call through a named breaker.
func RecordCircuitBreakerResult(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change. state is
// the numeric gauge value of the new state.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordEventPublish records a published or failed domain event.
func RecordEventPublish(topic string, err error) {
	if err != nil {
		EventsPublished.WithLabelValues(topic, "failure").Inc()
		return
	}
	EventsPublished.WithLabelValues(topic, "success").Inc()
}
