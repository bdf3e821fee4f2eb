// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package middleware provides the infrastructure HTTP middleware of the API.

  - RequestID: propagates or generates an X-Request-ID and seeds the
    logging context with request and correlation ids.
  - PrometheusMetrics: records api_requests_total, api_request_duration_seconds
    and api_active_requests, labelled by the chi route pattern so that path
    parameters such as user ids do not explode label cardinality.
  - PerformanceMonitor: keeps a sliding window of request latencies per
    route and reports percentiles on the admin performance endpoint. Requests
    slower than the configured threshold are logged.

The router mounts them in this order:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)

All middleware use the standard func(http.Handler) http.Handler shape and
work with any router; route patterns are only available under chi.
*/
package middleware
