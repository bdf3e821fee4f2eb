// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"time"

	"github.com/tomtom215/feedrank/internal/interest"
	"github.com/tomtom215/feedrank/internal/middleware"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/supervisor/services"
	"github.com/tomtom215/feedrank/internal/views"
)

// FeedService assembles feeds. It is implemented by *feed.Engine.
type FeedService interface {
	GetFeed(ctx context.Context, req models.FeedRequest) (*models.FeedResult, error)
	Ads(ctx context.Context, userID string) ([]models.Ad, error)
	Page(limit, offset int) (int, int)
}

// ViewRecorder queues view events. It is implemented by *views.Queue.
type ViewRecorder interface {
	Record(ctx context.Context, actingUserID string, ev models.ViewEvent) (func(context.Context), error)
	Stats() views.Stats
}

// TaskSubmitter runs work after the response is sent. It is implemented by
// *services.TaskRunner.
type TaskSubmitter interface {
	Submit(task services.Task) bool
}

// ProfileRebuilder recomputes a user's interest profile. It is implemented
// by *interest.Builder.
type ProfileRebuilder interface {
	Rebuild(ctx context.Context, userID string) (interest.Profile, error)
}

// ViewCounterReader reads persisted view counters. It is implemented by
// *database.DB.
type ViewCounterReader interface {
	ViewCounter(ctx context.Context, userID, contractID string) (*models.ViewCounter, error)
}

// StoreHealth reports the data store's reachability. It is implemented by
// *database.DB.
type StoreHealth interface {
	Ping(ctx context.Context) error
	BreakerState() string
}

// BreakerReporter reports a circuit breaker state. It is implemented by
// *events.Publisher.
type BreakerReporter interface {
	BreakerState() string
}

// Dependencies are the services behind the handlers. Events and Perf are
// optional.
type Dependencies struct {
	Feed     FeedService
	Views    ViewRecorder
	Tasks    TaskSubmitter
	Profiles ProfileRebuilder
	Store    StoreHealth
	Counters ViewCounterReader
	Events   BreakerReporter
	Perf     *middleware.PerformanceMonitor
	Version  string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_feed.go: feed and ads
//   - handlers_views.go: view ingestion
//   - handlers_admin.go: profile rebuilds, view counters, queue and
//     performance stats
//   - handlers_health.go: health checks
type Handler struct {
	feed      FeedService
	views     ViewRecorder
	tasks     TaskSubmitter
	profiles  ProfileRebuilder
	store     StoreHealth
	counters  ViewCounterReader
	events    BreakerReporter
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time

	// detach runs a continuation the task runner refused.
	detach func(func(context.Context))
}

// NewHandler creates a new API handler.
func NewHandler(deps Dependencies) *Handler {
	perf := deps.Perf
	if perf == nil {
		perf = middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold)
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		feed:      deps.Feed,
		views:     deps.Views,
		tasks:     deps.Tasks,
		profiles:  deps.Profiles,
		store:     deps.Store,
		counters:  deps.Counters,
		events:    deps.Events,
		perfMon:   perf,
		version:   version,
		startTime: time.Now(),
		detach: func(task func(context.Context)) {
			go task(context.Background())
		},
	}
}
