// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/tomtom215/feedrank/internal/config"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's built-in defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// TreeConfigFrom derives the tree configuration from the server section.
// Services get the server's shutdown timeout to finish in-flight work.
func TreeConfigFrom(cfg *config.ServerConfig) TreeConfig {
	tc := DefaultTreeConfig()
	if cfg != nil && cfg.ShutdownTimeout > 0 {
		tc.ShutdownTimeout = cfg.ShutdownTimeout
	}
	return tc
}

// SupervisorTree manages the hierarchical supervisor structure.
//
// The tree is organized into three layers:
//   - data: interest profile warming and refresh
//   - messaging: embedded NATS (if enabled) and the background task runner
//   - api: HTTP server
//
// Shutdown is ordered: the api layer is removed and waited for before the
// other layers are cancelled.
type SupervisorTree struct {
	root      *suture.Supervisor
	data      *suture.Supervisor
	messaging *suture.Supervisor
	api       *suture.Supervisor
	apiToken  suture.ServiceToken
	logger    *slog.Logger
	config    TreeConfig
}

// NewSupervisorTree creates a new supervisor tree. Zero fields of config
// take their DefaultTreeConfig values.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	def := DefaultTreeConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = def.FailureThreshold
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = def.FailureDecay
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = def.FailureBackoff
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = def.ShutdownTimeout
	}

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	spec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	rootSpec := spec
	rootSpec.EventHook = handler.MustHook()

	// Children inherit the EventHook when added to the root.
	t := &SupervisorTree{
		root:      suture.New("feedrank", rootSpec),
		data:      suture.New("data-layer", spec),
		messaging: suture.New("messaging-layer", spec),
		api:       suture.New("api-layer", spec),
		logger:    logger,
		config:    config,
	}
	t.root.Add(t.data)
	t.root.Add(t.messaging)
	t.apiToken = t.root.Add(t.api)
	return t, nil
}

// AddDataService adds a service to the data layer supervisor.
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddMessagingService adds a service to the messaging layer supervisor.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddAPIService adds a service to the API layer supervisor.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree and blocks until ctx is canceled and every layer has
// stopped.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return <-t.ServeBackground(ctx)
}

// ServeBackground runs the tree in a background goroutine. The returned
// channel receives the tree's error once every layer has stopped; a
// cancellation of ctx is reported as ctx.Err().
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	rootCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	rootErr := t.root.ServeBackground(rootCtx)

	out := make(chan error, 1)
	go func() {
		defer cancel()
		select {
		case err := <-rootErr:
			out <- err
			return
		case <-ctx.Done():
		}

		if err := t.root.RemoveAndWait(t.apiToken, t.config.ShutdownTimeout); err != nil {
			t.logger.Warn("api layer did not stop cleanly", "error", err)
		}
		cancel()
		if err := <-rootErr; err != nil && !errors.Is(err, context.Canceled) {
			out <- err
			return
		}
		out <- ctx.Err()
	}()
	return out
}

// UnstoppedServiceReport lists services that did not stop within the
// shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
