// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package interest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
)

// Source is the data the builder reads. *database.DB implements it.
type Source interface {
	TopicInterests(ctx context.Context, userID string, candidates, limit int) (map[string]float64, error)
	GroupMemberships(ctx context.Context, userIDs []string) ([]database.GroupMembership, error)
	RecentlyActiveUsers(ctx context.Context, since time.Time) ([]string, error)
}

// BuilderConfig tunes profile builds.
type BuilderConfig struct {
	BatchSize int

	// BatchRate is the number of batches started per second. Zero is unpaced.
	BatchRate float64

	ActiveWindow   time.Duration
	CandidateLimit int
	TopicLimit     int

	// Concurrency bounds the baseline fetches in flight within a batch.
	Concurrency int

	// BuildTimeout bounds shared work that outlives the caller that started it.
	BuildTimeout time.Duration
}

// DefaultBuilderConfig returns the production defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		BatchSize:      500,
		ActiveWindow:   30 * 24 * time.Hour,
		CandidateLimit: 50,
		TopicLimit:     100,
		Concurrency:    32,
		BuildTimeout:   2 * time.Minute,
	}
}

// BuilderConfigFrom maps the interest section of the service config.
func BuilderConfigFrom(cfg *config.InterestConfig) BuilderConfig {
	out := DefaultBuilderConfig()
	if cfg.BatchSize > 0 {
		out.BatchSize = cfg.BatchSize
	}
	if cfg.BatchRate > 0 {
		out.BatchRate = cfg.BatchRate
	}
	if cfg.ActiveWindow > 0 {
		out.ActiveWindow = cfg.ActiveWindow
	}
	if cfg.CandidateLimit > 0 {
		out.CandidateLimit = cfg.CandidateLimit
	}
	if cfg.TopicLimit > 0 {
		out.TopicLimit = cfg.TopicLimit
	}
	if cfg.BuildTimeout > 0 {
		out.BuildTimeout = cfg.BuildTimeout
	}
	return out
}

// BuildError reports a failed baseline fetch for one user.
type BuildError struct {
	UserID string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build interests for %s: %v", e.UserID, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Builder is the only writer of a Store.
//
// A stored profile is always the latest baseline plus the user's follow
// ledger. The ledger gains one unit per membership on every build, so
// long-lived follows keep growing while baseline topics that fall out of
// the user's top scores disappear on the next build.
type Builder struct {
	store   Store
	src     Source
	cfg     BuilderConfig
	now     func() time.Time
	limiter *rate.Limiter
	logger  zerolog.Logger

	flight singleflight.Group

	// mu guards follows and orders every profile write.
	mu      sync.Mutex
	follows map[string]Profile

	// coldMu lets one build populate an empty store while others wait.
	coldMu sync.Mutex
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the time source used for the activity window.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder writing to store.
func NewBuilder(store Store, src Source, cfg BuilderConfig, opts ...BuilderOption) *Builder {
	def := DefaultBuilderConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = def.BuildTimeout
	}

	b := &Builder{
		store:   store,
		src:     src,
		cfg:     cfg,
		now:     time.Now,
		logger:  logging.WithComponent("interest"),
		follows: make(map[string]Profile),
	}
	if cfg.BatchRate > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.BatchRate), 1)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Store returns the store the builder writes to.
func (b *Builder) Store() Store {
	return b.store
}

// Ensure returns the user's profile, building it first if it is not cached.
// Concurrent calls for the same user share one build. The shared build is
// not canceled when one caller goes away; each caller still stops waiting
// when its own ctx is done.
func (b *Builder) Ensure(ctx context.Context, userID string) (Profile, error) {
	p, ok, err := b.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read interest profile: %w", err)
	}
	metrics.RecordInterestLookup(ok)
	if ok {
		return p, nil
	}

	ch := b.flight.DoChan("ensure:"+userID, func() (interface{}, error) {
		bctx, cancel := b.detach(ctx)
		defer cancel()
		if has, err := b.store.Has(bctx, userID); err == nil && has {
			return nil, nil
		}
		return nil, b.Build(bctx, userID)
	})

	var buildErr error
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		buildErr = res.Err
	}

	p, ok, err = b.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read interest profile: %w", err)
	}
	if !ok {
		if buildErr == nil {
			buildErr = fmt.Errorf("no interest profile built for %s", userID)
		}
		return nil, buildErr
	}
	if buildErr != nil {
		b.logger.Warn().Err(buildErr).Str("user_id", userID).Msg("Interest build finished with errors for other users")
	}
	return p, nil
}

// detach returns a context that keeps ctx's values but not its
// cancellation, bounded by the build timeout.
func (b *Builder) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), b.cfg.BuildTimeout)
}

// Build builds userID's profile. On an empty store it also builds every user
// active within the activity window. userID may be empty to only warm.
func (b *Builder) Build(ctx context.Context, userID string) error {
	start := time.Now()
	defer func() {
		metrics.InterestBuildDuration.Observe(time.Since(start).Seconds())
		metrics.InterestProfiles.Set(float64(b.store.Len()))
	}()

	ids := make([]string, 0, 1)
	if userID != "" {
		ids = append(ids, userID)
	}

	if b.store.Len() == 0 {
		b.coldMu.Lock()
		defer b.coldMu.Unlock()

		if b.store.Len() == 0 {
			active, err := b.src.RecentlyActiveUsers(ctx, b.now().Add(-b.cfg.ActiveWindow))
			if err != nil {
				return fmt.Errorf("list recently active users: %w", err)
			}
			ids = mergeIDs(ids, active)
			b.logger.Info().Int("users", len(ids)).Msg("Building interest profiles for cold cache")
		}
	}

	return b.buildUsers(ctx, ids)
}

// Refresh rebuilds every recently active user regardless of cache state.
func (b *Builder) Refresh(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.InterestBuildDuration.Observe(time.Since(start).Seconds())
		metrics.InterestProfiles.Set(float64(b.store.Len()))
	}()

	active, err := b.src.RecentlyActiveUsers(ctx, b.now().Add(-b.cfg.ActiveWindow))
	if err != nil {
		return fmt.Errorf("list recently active users: %w", err)
	}
	return b.buildUsers(ctx, active)
}

func (b *Builder) buildUsers(ctx context.Context, ids []string) error {
	var errs []error
	for start := 0; start < len(ids); start += b.cfg.BatchSize {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				errs = append(errs, fmt.Errorf("wait for batch slot: %w", err))
				break
			}
		}
		end := start + b.cfg.BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := b.buildBatch(ctx, ids[start:end]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildBatch fetches baselines and memberships concurrently, then commits
// each user whose baseline arrived. Users whose baseline failed keep their
// previous profile, or stay uncached.
func (b *Builder) buildBatch(ctx context.Context, batch []string) error {
	var (
		mu        sync.Mutex
		baselines = make(map[string]map[string]float64, len(batch))
		failed    = make(map[string]error)

		memberships   []database.GroupMembership
		membershipErr error
	)

	var g errgroup.Group
	g.SetLimit(b.cfg.Concurrency + 1)

	g.Go(func() error {
		memberships, membershipErr = b.src.GroupMemberships(ctx, batch)
		return nil
	})

	for _, userID := range batch {
		userID := userID
		g.Go(func() error {
			scores, err := b.fetchBaseline(ctx, userID)
			metrics.RecordInterestBuild(err)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to build interest baseline")
				failed[userID] = err
				return nil
			}
			baselines[userID] = scores
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	var followed map[string][]string
	if membershipErr != nil {
		b.logger.Warn().Err(membershipErr).Int("batch_size", len(batch)).Msg("Failed to load group memberships")
		errs = append(errs, fmt.Errorf("load group memberships: %w", membershipErr))
	} else {
		followed = groupsByUser(memberships)
	}

	for _, userID := range batch {
		scores, ok := baselines[userID]
		if !ok {
			continue
		}
		var groups []string
		if followed != nil {
			groups = followed[userID]
		}
		if _, err := b.commit(ctx, userID, scores, groups, followed != nil, false); err != nil {
			errs = append(errs, fmt.Errorf("store interest profile for %s: %w", userID, err))
		}
	}

	failedIDs := make([]string, 0, len(failed))
	for id := range failed {
		failedIDs = append(failedIDs, id)
	}
	sort.Strings(failedIDs)
	for _, id := range failedIDs {
		errs = append(errs, &BuildError{UserID: id, Err: failed[id]})
	}

	return errors.Join(errs...)
}

// fetchBaseline loads userID's topic scores. Concurrent fetches for one user,
// from batches and rebuilds alike, share a single query that runs detached
// from the caller that started it. The returned map is shared; do not modify.
func (b *Builder) fetchBaseline(ctx context.Context, userID string) (map[string]float64, error) {
	ch := b.flight.DoChan("baseline:"+userID, func() (interface{}, error) {
		fctx, cancel := b.detach(ctx)
		defer cancel()
		return b.src.TopicInterests(fctx, userID, b.cfg.CandidateLimit, b.cfg.TopicLimit)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		scores, _ := res.Val.(map[string]float64)
		return scores, nil
	}
}

// commit replaces userID's stored profile with scores plus the follow
// ledger. When membershipsKnown is set the ledger gains one unit per group
// in groups and forgets groups no longer followed; reset starts it over.
func (b *Builder) commit(ctx context.Context, userID string, scores map[string]float64, groups []string, membershipsKnown, reset bool) (Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ledger := b.follows[userID]
	if membershipsKnown {
		next := make(Profile, len(groups))
		for _, group := range groups {
			if _, seen := next[group]; !seen && !reset {
				next[group] = ledger[group]
			}
			next[group]++
		}
		ledger = next
	}

	p := make(Profile, len(scores)+len(ledger))
	for topic, score := range scores {
		p[topic] = score
	}
	for group, bonus := range ledger {
		p[group] += bonus
	}

	if err := b.store.Set(ctx, userID, p); err != nil {
		return nil, err
	}
	if len(ledger) == 0 {
		delete(b.follows, userID)
	} else {
		b.follows[userID] = ledger
	}
	return p, nil
}

// Rebuild replaces a user's profile with a freshly computed one, discarding
// accumulated follow bonuses.
func (b *Builder) Rebuild(ctx context.Context, userID string) (Profile, error) {
	scores, err := b.fetchBaseline(ctx, userID)
	metrics.RecordInterestBuild(err)
	if err != nil {
		return nil, &BuildError{UserID: userID, Err: err}
	}
	memberships, err := b.src.GroupMemberships(ctx, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("load group memberships: %w", err)
	}

	p, err := b.commit(ctx, userID, scores, groupsByUser(memberships)[userID], true, true)
	if err != nil {
		return nil, err
	}
	b.logger.Info().Str("user_id", userID).Int("topics", len(p)).Msg("Interest profile rebuilt")
	return p.Clone(), nil
}

func groupsByUser(memberships []database.GroupMembership) map[string][]string {
	out := make(map[string][]string)
	for _, m := range memberships {
		out[m.UserID] = append(out[m.UserID], m.GroupID)
	}
	return out
}

// mergeIDs appends the ids of extra not already present, preserving order.
func mergeIDs(ids, extra []string) []string {
	seen := make(map[string]struct{}, len(ids)+len(extra))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, id := range extra {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
