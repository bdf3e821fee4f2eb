// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/feedrank/internal/api"
	"github.com/tomtom215/feedrank/internal/auth"
	"github.com/tomtom215/feedrank/internal/authz"
	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/events"
	"github.com/tomtom215/feedrank/internal/feed"
	"github.com/tomtom215/feedrank/internal/interest"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/middleware"
	"github.com/tomtom215/feedrank/internal/supervisor"
	"github.com/tomtom215/feedrank/internal/supervisor/services"
	"github.com/tomtom215/feedrank/internal/views"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.ConfigFrom(&cfg.Logging, version))

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("interest_store", cfg.Interest.Store).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Feedrank with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Feedrank stopped with error")
	}
	logging.Info().Msg("Feedrank stopped")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	store, err := interest.NewStore(&cfg.Interest)
	if err != nil {
		return fmt.Errorf("failed to open interest store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing interest store")
		}
	}()
	builder := interest.NewBuilder(store, db, interest.BuilderConfigFrom(&cfg.Interest))

	engine := feed.NewEngine(db, builder, feed.ConfigFrom(&cfg.Feed))

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(&cfg.Server))
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	queueOpts := []views.Option{}
	publisher, err := initEvents(ctx, cfg, tree)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event publisher")
			}
		}()
		queueOpts = append(queueOpts, views.WithAnnouncer(publisher))
	}
	queue := views.NewQueue(db, cfg.Views.CountWindow, queueOpts...)

	runner := services.NewTaskRunner(services.DefaultTaskBuffer, logging.WithComponent("task-runner"))
	tree.AddMessagingService(runner)

	tree.AddDataService(services.NewProfileService(builder, services.ProfileServiceConfig{
		WarmOnStartup:   cfg.Interest.WarmOnStartup,
		RefreshInterval: cfg.Interest.RefreshInterval,
		BuildTimeout:    10 * time.Minute,
	}, logging.WithComponent("profile-service")))

	authMiddleware, authzMiddleware, err := initSecurity(cfg)
	if err != nil {
		return err
	}

	deps := api.Dependencies{
		Feed:     engine,
		Views:    queue,
		Tasks:    runner,
		Profiles: builder,
		Store:    db,
		Counters: db,
		Perf:     middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold),
		Version:  version,
	}
	if publisher != nil {
		deps.Events = publisher
	}
	router := api.NewRouter(api.NewHandler(deps), authMiddleware, authzMiddleware,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}
	httpSvc := services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http"))
	httpSvc.AddFlusher("view-queue", queue)
	tree.AddAPIService(httpSvc)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	err = <-tree.ServeBackground(ctx)

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}

// initEvents starts the embedded NATS server when configured and opens the
// publisher. It returns nil when events are disabled.
func initEvents(ctx context.Context, cfg *config.Config, tree *supervisor.SupervisorTree) (*events.Publisher, error) {
	if !cfg.Events.Enabled {
		logging.Info().Msg("View events disabled")
		return nil, nil
	}

	natsURL := ""
	if cfg.Events.Driver == events.DriverNATS && cfg.Events.Embedded {
		srv, err := events.NewEmbeddedServer(&cfg.Events)
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded NATS server: %w", err)
		}
		natsURL = srv.ClientURL()
		tree.AddMessagingService(services.NewEmbeddedNATSService(srv, cfg.Server.ShutdownTimeout))
		logging.Info().Str("url", natsURL).Bool("jetstream", srv.JetStreamEnabled()).Msg("Embedded NATS server started")
	}

	publisher, err := events.Open(ctx, &cfg.Events, natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open event bus: %w", err)
	}
	logging.Info().Str("driver", cfg.Events.Driver).Str("topic", publisher.Topic()).Msg("View events enabled")
	return publisher, nil
}

// initSecurity builds the authentication and authorization middleware.
func initSecurity(cfg *config.Config) (*auth.Middleware, *authz.Middleware, error) {
	var jwtManager *auth.JWTManager
	if cfg.Security.JWTSecret != "" {
		var err error
		jwtManager, err = auth.NewJWTManager(cfg.Security.JWTSecret, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize JWT manager: %w", err)
		}
		logging.Info().Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("JWT_SECRET is not set: every request is anonymous and admin routes are unreachable")
	}

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfigFrom(&cfg.Security))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize authorization: %w", err)
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	return auth.NewMiddleware(jwtManager), authz.NewMiddleware(enforcer), nil
}
