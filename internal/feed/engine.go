// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/interest"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
)

// ErrMissingUser is returned when a feed is requested without a user id.
var ErrMissingUser = errors.New("feed: user id is required")

// Retriever is the store surface the engine reads from.
// It is implemented by *database.DB.
type Retriever interface {
	Candidates(ctx context.Context, shape models.Shape, p database.FeedParams) ([]models.Candidate, error)
	SelectAds(ctx context.Context, userID string, now time.Time, limit int) ([]models.Ad, error)
	PrivateUser(ctx context.Context, userID string) (*models.PrivateUser, error)
}

// ProfileSource returns a user's interest profile, building it if needed.
// It is implemented by *interest.Builder.
type ProfileSource interface {
	Ensure(ctx context.Context, userID string) (interest.Profile, error)
}

// Config bounds feed requests.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	AdCandidates int
	RepostWindow time.Duration
}

// DefaultConfig returns the limits used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 20,
		MaxLimit:     100,
		AdCandidates: database.DefaultAdCandidates,
		RepostWindow: database.DefaultRepostWindow,
	}
}

// ConfigFrom converts the feed section of the application config.
func ConfigFrom(cfg *config.FeedConfig) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.DefaultLimit > 0 {
		c.DefaultLimit = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 {
		c.MaxLimit = cfg.MaxLimit
	}
	if cfg.AdCandidates > 0 {
		c.AdCandidates = cfg.AdCandidates
	}
	if cfg.RepostWindow > 0 {
		c.RepostWindow = cfg.RepostWindow
	}
	return c
}

// Engine assembles feeds. It is safe for concurrent use.
type Engine struct {
	store    Retriever
	profiles ProfileSource
	cfg      Config
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a feed engine.
func NewEngine(store Retriever, profiles ProfileSource, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		profiles: profiles,
		cfg:      cfg,
		now:      time.Now,
		logger:   logging.WithComponent("feed"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Page clamps a requested limit and offset to the configured bounds.
func (e *Engine) Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if e.cfg.MaxLimit > 0 && limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetFeed assembles one page of the user's feed.
func (e *Engine) GetFeed(ctx context.Context, req models.FeedRequest) (*models.FeedResult, error) {
	start := time.Now()
	result, err := e.getFeed(ctx, req)

	items := 0
	if result != nil {
		items = len(result.Contracts)
	}
	metrics.RecordFeedRequest(time.Since(start), items, err)
	return result, err
}

func (e *Engine) getFeed(ctx context.Context, req models.FeedRequest) (*models.FeedResult, error) {
	if req.UserID == "" {
		return nil, ErrMissingUser
	}

	params, err := e.params(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	retrieved, timings, err := e.retrieve(ctx, params)
	if err != nil {
		return nil, err
	}

	timing := zerolog.Dict()
	for _, shape := range models.AllShapes {
		timing = timing.Dur(string(shape), timings[shape])
	}
	e.logger.Debug().
		Str("user_id", req.UserID).
		Int("topics", len(params.Interests)).
		Dict("shapes", timing).
		Dur("total", time.Since(start)).
		Msg("feed queries completed")

	return Merge(retrieved), nil
}

// params loads the profile and block lists and builds the store parameters.
func (e *Engine) params(ctx context.Context, req models.FeedRequest) (database.FeedParams, error) {
	var (
		profile interest.Profile
		user    *models.PrivateUser
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.profiles.Ensure(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to load interest profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		u, err := e.store.PrivateUser(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to load block lists: %w", err)
		}
		user = u
		return nil
	})
	if err := g.Wait(); err != nil {
		return database.FeedParams{}, err
	}
	if user == nil {
		user = &models.PrivateUser{ID: req.UserID}
	}

	limit, offset := e.Page(req.Limit, req.Offset)
	return database.FeedParams{
		UserID:             req.UserID,
		Interests:          profile,
		Now:                e.now().UTC(),
		Limit:              limit,
		Offset:             offset,
		IgnoreContractIDs:  req.IgnoreContractIDs,
		BlockedCreatorIDs:  user.BlockedCreatorIDs(),
		BlockedContractIDs: user.BlockedContractIDs,
		BlockedGroupSlugs:  user.BlockedGroupSlugs,
		AdCandidates:       e.cfg.AdCandidates,
		RepostWindow:       e.cfg.RepostWindow,
	}, nil
}

// retrieve runs every shape concurrently. The first error cancels the rest.
func (e *Engine) retrieve(ctx context.Context, params database.FeedParams) (Retrieved, map[models.Shape]time.Duration, error) {
	rows := make([][]models.Candidate, len(models.AllShapes))
	took := make([]time.Duration, len(models.AllShapes))

	g, gctx := errgroup.WithContext(ctx)
	for i, shape := range models.AllShapes {
		i, shape := i, shape
		g.Go(func() error {
			start := time.Now()
			cands, err := e.store.Candidates(gctx, shape, params)
			took[i] = time.Since(start)
			if err != nil {
				return fmt.Errorf("failed to retrieve %s candidates: %w", shape, err)
			}
			metrics.RecordFeedShape(string(shape), took[i], len(cands))
			rows[i] = cands
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	retrieved := make(Retrieved, len(models.AllShapes))
	timings := make(map[models.Shape]time.Duration, len(models.AllShapes))
	for i, shape := range models.AllShapes {
		retrieved[shape] = rows[i]
		timings[shape] = took[i]
	}
	return retrieved, timings, nil
}

// Ads returns the user's current auction slate, highest bid first.
func (e *Engine) Ads(ctx context.Context, userID string) ([]models.Ad, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	ads, err := e.store.SelectAds(ctx, userID, e.now().UTC(), e.cfg.AdCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to select ads: %w", err)
	}
	return ads, nil
}
