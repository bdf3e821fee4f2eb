// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package api exposes the feed engine and the view ingestion queue over HTTP.

# Endpoints

	GET  /api/v1/feed?userId=&limit=&offset=&ignoreContractIds=
	GET  /api/v1/ads?userId=
	POST /api/v1/views                                {contractId, userId?, kind}
	POST /api/v1/admin/interests/{userID}/rebuild
	GET  /api/v1/admin/views/counters/{contractID}?userId=
	GET  /api/v1/admin/views/queue
	GET  /api/v1/admin/performance
	GET  /health, /health/live, /health/ready
	GET  /metrics

Every JSON endpoint except POST /api/v1/views answers with the envelope

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}}

POST /api/v1/views answers {"status":"success"} as soon as the event is
queued; the write happens on the task runner after the response.

# Identity

The bearer token, when present, names the acting user. A view whose userId
differs from the acting user is rejected with 401 UNAUTHORIZED; anonymous
callers may only record anonymous views. Admin routes additionally pass the
Casbin policy in package authz.

# Middleware

Global: request id, real IP, panic recovery, CORS, Prometheus metrics and
the performance monitor. The /api/v1 group adds per-IP rate limiting
(httprate), authentication and, under /admin, authorization.
*/
package api
