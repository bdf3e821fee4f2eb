// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
)

// ErrUnauthorized is returned when the event names a user other than the
// caller.
var ErrUnauthorized = errors.New("views: event user does not match the caller")

// Writer persists a single view. It is implemented by *database.DB.
type Writer interface {
	UpsertView(ctx context.Context, ev models.ViewEvent, now time.Time, window time.Duration) error
}

// Announcer publishes persisted views. It is implemented by *events.Publisher.
type Announcer interface {
	PublishView(ctx context.Context, ev models.ViewEvent, at time.Time) error
}

// Stats is a snapshot of the queue.
type Stats struct {
	Depth    int  `json:"depth"`
	Draining bool `json:"draining"`
}

// Queue is the view ingestion FIFO. It is safe for concurrent use.
type Queue struct {
	store     Writer
	announcer Announcer
	window    time.Duration
	now       func() time.Time
	logger    zerolog.Logger

	mu       sync.Mutex
	pending  []models.ViewEvent
	draining bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock overrides the time source used for view timestamps.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// WithAnnouncer publishes every persisted view through a.
func WithAnnouncer(a Announcer) Option {
	return func(q *Queue) {
		q.announcer = a
	}
}

// NewQueue creates a queue writing to store. A non-positive window uses the
// one-minute default.
func NewQueue(store Writer, window time.Duration, opts ...Option) *Queue {
	if window <= 0 {
		window = database.DefaultViewCountWindow
	}
	q := &Queue{
		store:  store,
		window: window,
		now:    time.Now,
		logger: logging.WithComponent("views"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Record enqueues ev on behalf of actingUserID (empty when anonymous) and
// returns the continuation that drains the queue. Nothing is written until
// the continuation runs.
func (q *Queue) Record(_ context.Context, actingUserID string, ev models.ViewEvent) (func(context.Context), error) {
	if ev.UserID != actingUserID {
		metrics.ViewsRejected.Inc()
		return nil, ErrUnauthorized
	}
	if ev.ContractID == "" {
		return nil, errors.New("views: contract id is required")
	}
	if !ev.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", database.ErrInvalidViewKind, ev.Kind)
	}

	q.mu.Lock()
	q.pending = append(q.pending, ev)
	depth := len(q.pending)
	q.mu.Unlock()

	metrics.ViewsEnqueued.WithLabelValues(string(ev.Kind)).Inc()
	metrics.ViewQueueDepth.Set(float64(depth))

	return q.Drain, nil
}

// Drain writes queued events until the queue is empty or a write fails.
// It returns immediately when another drain is running.
func (q *Queue) Drain(ctx context.Context) {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	for {
		ev, ok := q.next()
		if !ok {
			return
		}

		now := q.now().UTC()
		if err := q.store.UpsertView(ctx, ev, now, q.window); err != nil {
			q.release()
			metrics.ViewsDropped.WithLabelValues(string(ev.Kind)).Inc()
			q.logger.Error().Err(err).
				Str("user_id", ev.UserID).
				Str("contract_id", ev.ContractID).
				Str("kind", string(ev.Kind)).
				Msg("Failed to record view, dropping event")
			return
		}
		metrics.ViewsPersisted.WithLabelValues(string(ev.Kind)).Inc()
		q.announce(ctx, ev, now)
	}
}

// Flush drains until the queue is empty, waiting out a drain that is already
// running elsewhere. A failed write still drops only that event. Flush
// returns the number of events left when ctx ends first.
func (q *Queue) Flush(ctx context.Context) int {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return q.Stats().Depth
		}
		q.Drain(ctx)
		if st := q.Stats(); st.Depth == 0 && !st.Draining {
			return 0
		}
		select {
		case <-ctx.Done():
			return q.Stats().Depth
		case <-ticker.C:
		}
	}
}

// next pops the head of the queue. An empty queue clears the draining flag
// under the same lock that observed it empty.
func (q *Queue) next() (models.ViewEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		q.draining = false
		metrics.ViewQueueDepth.Set(0)
		return models.ViewEvent{}, false
	}

	ev := q.pending[0]
	q.pending[0] = models.ViewEvent{}
	q.pending = q.pending[1:]
	metrics.ViewQueueDepth.Set(float64(len(q.pending)))
	return ev, true
}

func (q *Queue) release() {
	q.mu.Lock()
	q.draining = false
	q.mu.Unlock()
}

func (q *Queue) announce(ctx context.Context, ev models.ViewEvent, at time.Time) {
	if q.announcer == nil {
		return
	}
	if err := q.announcer.PublishView(ctx, ev, at); err != nil {
		q.logger.Warn().Err(err).
			Str("contract_id", ev.ContractID).
			Msg("Failed to publish view event")
	}
}

// Stats returns the current depth and whether a drain is running.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{Depth: len(q.pending), Draining: q.draining}
}
