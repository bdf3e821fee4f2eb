// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/feedrank/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which a request is logged.
const DefaultSlowRequestThreshold = time.Second

// RequestSample is one observed request.
type RequestSample struct {
	Route      string
	Method     string
	Duration   time.Duration
	StatusCode int
}

// EndpointStats contains aggregated statistics for an endpoint
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"requestCount"`
	AvgMS        float64 `json:"avgMs"`
	P50MS        int64   `json:"p50Ms"`
	P95MS        int64   `json:"p95Ms"`
	P99MS        int64   `json:"p99Ms"`
	MaxMS        int64   `json:"maxMs"`
	ErrorCount   int64   `json:"errorCount"`
}

// PerformanceMonitor keeps the latest samples in a bounded window.
type PerformanceMonitor struct {
	mu        sync.RWMutex
	samples   []RequestSample
	capacity  int
	threshold time.Duration
}

// NewPerformanceMonitor creates a monitor keeping at most capacity samples.
func NewPerformanceMonitor(capacity int, slowThreshold time.Duration) *PerformanceMonitor {
	if capacity <= 0 {
		capacity = 1000
	}
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return &PerformanceMonitor{
		samples:   make([]RequestSample, 0, capacity),
		capacity:  capacity,
		threshold: slowThreshold,
	}
}

// Record adds a sample, evicting the oldest when full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.samples) == pm.capacity {
		copy(pm.samples, pm.samples[1:])
		pm.samples = pm.samples[:len(pm.samples)-1]
	}
	pm.samples = append(pm.samples, s)
}

// Stats returns per-endpoint statistics over the current window, busiest
// endpoint first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	byEndpoint := make(map[string][]RequestSample)
	for _, s := range pm.samples {
		key := s.Method + " " + s.Route
		byEndpoint[key] = append(byEndpoint[key], s)
	}
	pm.mu.RUnlock()

	stats := make([]EndpointStats, 0, len(byEndpoint))
	for endpoint, samples := range byEndpoint {
		sorted := make([]int64, len(samples))
		var sum, errs int64
		for i, s := range samples {
			sorted[i] = s.Duration.Milliseconds()
			sum += sorted[i]
			if s.StatusCode >= http.StatusInternalServerError {
				errs++
			}
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(sorted)),
			AvgMS:        float64(sum) / float64(len(sorted)),
			P50MS:        percentile(sorted, 0.50),
			P95MS:        percentile(sorted, 0.95),
			P99MS:        percentile(sorted, 0.99),
			MaxMS:        sorted[len(sorted)-1],
			ErrorCount:   errs,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// Middleware samples every request and logs slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		route := routePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			Duration:   duration,
			StatusCode: wrapper.statusCode,
		})

		if duration > pm.threshold {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Dur("duration", duration).
				Dur("threshold", pm.threshold).
				Msg("Slow request detected")
		}
	})
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
