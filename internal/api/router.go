// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/feedrank/internal/auth"
	"github.com/tomtom215/feedrank/internal/authz"
	"github.com/tomtom215/feedrank/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. authzMiddleware may be nil, in which case the
// admin routes only require an authenticated caller.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, authzMiddleware *authz.Middleware, chiMw *ChiMiddleware) *Router {
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(nil)
	}
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		authz:         authzMiddleware,
		chiMiddleware: chiMw,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(h.perfMon.Middleware)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(router.auth.Authenticate)

		r.With(chimiddleware.Compress(5, "application/json")).Get("/feed", h.Feed)
		r.Get("/ads", h.Ads)
		r.Post("/views", h.RecordView)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireUser)
			if router.authz != nil {
				r.Use(router.authz.AuthorizeRequest)
			}
			r.Post("/interests/{userID}/rebuild", h.RebuildInterests)
			r.Get("/views/queue", h.ViewQueueStats)
			r.Get("/views/counters/{contractID}", h.ViewCounter)
			r.Get("/performance", h.Performance)
		})
	})

	return r
}
