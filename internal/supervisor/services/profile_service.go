// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ProfileBuilder warms and refreshes interest profiles.
// It is implemented by *interest.Builder.
type ProfileBuilder interface {
	// Build with an empty user id builds every recently active user when
	// the cache is cold.
	Build(ctx context.Context, userID string) error
	Refresh(ctx context.Context) error
}

// ProfileServiceConfig controls warming and refresh.
type ProfileServiceConfig struct {
	WarmOnStartup bool

	// RefreshInterval re-runs the bulk build. Zero disables refresh.
	RefreshInterval time.Duration

	// BuildTimeout bounds a single warm or refresh run.
	BuildTimeout time.Duration
}

// ProfileService keeps the interest profile cache warm.
type ProfileService struct {
	builder ProfileBuilder
	config  ProfileServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewProfileService creates the profile warming service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProfileService(builder ProfileBuilder, cfg ProfileServiceConfig, logger zerolog.Logger) *ProfileService {
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = 30 * time.Minute
	}
	return &ProfileService{
		builder: builder,
		config:  cfg,
		logger:  logger.With().Str("service", "profiles").Logger(),
		name:    "profile-service",
	}
}

// Serve implements suture.Service. Build errors are logged, not returned.
func (s *ProfileService) Serve(ctx context.Context) error {
	if s.config.WarmOnStartup {
		s.run(ctx, "warm", func(ctx context.Context) error {
			return s.builder.Build(ctx, "")
		})
	}

	if s.config.RefreshInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, "refresh", s.builder.Refresh)
		}
	}
}

func (s *ProfileService) run(ctx context.Context, kind string, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	start := time.Now()
	if err := fn(runCtx); err != nil {
		s.logger.Warn().Err(err).Str("run", kind).Dur("duration", time.Since(start)).Msg("interest profile build finished with errors")
		return
	}
	s.logger.Info().Str("run", kind).Dur("duration", time.Since(start)).Msg("interest profile build complete")
}

func (s *ProfileService) String() string {
	return s.name
}
