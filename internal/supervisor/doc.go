// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package supervisor provides process supervision for Feedrank using suture v4.

The tree organizes long-running services into three layers for failure
isolation:

	RootSupervisor ("feedrank")
	├── DataSupervisor ("data-layer")
	│   └── ProfileService (warm on startup, periodic refresh)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EmbeddedNATSService (if events.embedded)
	│   └── TaskRunner (view ingestion continuations)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing profile refresh restarts only the data layer; the API keeps serving
from the profiles already cached.

On shutdown the API layer stops first, so the HTTP service can flush the
view queue while the task runner and the event bus are still running. The
remaining layers are cancelled once it has stopped or the shutdown timeout
has passed.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewProfileService(builder, cfg, logger))
	tree.AddMessagingService(runner)
	httpSvc := services.NewHTTPServerService(server, ":8080", 10*time.Second, logger)
	httpSvc.AddFlusher("view-queue", queue)
	tree.AddAPIService(httpSvc)

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (restarts, backoff, panics) are logged through sutureslog,
bridged to zerolog by logging.NewSlogLogger.
*/
package supervisor
