// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/feedrank/internal/metrics"
)

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Post("/api/v1/admin/interests/{userID}/rebuild", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	pattern := "/api/v1/admin/interests/{userID}/rebuild"
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodPost, pattern, "202"))

	for _, user := range []string{"u1", "u2", "u3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/interests/"+user+"/rebuild", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodPost, pattern, "202"))
	if got != before+3 {
		t.Errorf("requests = %v, want %v", got, before+3)
	}
}

func TestPrometheusMetrics_CapturesStatus(t *testing.T) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK)
	}))

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/plain", "500"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plain", nil))

	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/plain", "500")); got != before+1 {
		t.Errorf("500 count = %v, want %v", got, before+1)
	}
}

func TestPrometheusMetrics_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) {})

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")); got != before+1 {
		t.Errorf("unmatched count = %v, want %v", got, before+1)
	}
}
