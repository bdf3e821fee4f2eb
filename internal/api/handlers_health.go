// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the store ping of a health check.
const healthCheckTimeout = 2 * time.Second

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	DatabaseBreaker   string  `json:"database_breaker"`
	EventsBreaker     string  `json:"events_breaker,omitempty"`
	ViewQueueDepth    int     `json:"view_queue_depth"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health reports the overall status. It always answers 200; status is
// "degraded" when the store is unreachable or its breaker is not closed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	dbConnected := h.store != nil && h.store.Ping(ctx) == nil
	breaker := "unknown"
	if h.store != nil {
		breaker = h.store.BreakerState()
	}

	status := "healthy"
	if !dbConnected || breaker == "open" {
		status = "degraded"
	}

	health := HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbConnected,
		DatabaseBreaker:   breaker,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.events != nil {
		health.EventsBreaker = h.events.BreakerState()
	}
	if h.views != nil {
		health.ViewQueueDepth = h.views.Stats().Depth
	}

	NewResponseWriter(w, r).Success(health)
}

// HealthLive returns 200 while the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady returns 200 once the store answers a ping and 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	rw := NewResponseWriter(w, r)
	if h.store == nil || h.store.Ping(ctx) != nil {
		rw.ServiceUnavailable("Database not reachable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
