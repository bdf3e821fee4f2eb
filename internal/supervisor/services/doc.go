// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package services adapts Feedrank components to the suture.Service interface.

Each wrapper translates a component's own lifecycle into Serve(ctx) error:
return nil or ctx.Err() on a clean stop and any other error to ask the
supervisor for a restart.

  - HTTPServerService: serves the API and, on stop, drains registered
    flushers such as the view queue after in-flight requests finish.
  - TaskRunner: runs submitted background tasks (view queue continuations)
    one at a time with the service context.
  - ProfileService: warms the interest cache on startup and refreshes it on
    an interval.
  - EmbeddedNATSService: owns an embedded NATS JetStream server.

All services implement fmt.Stringer so suture can name them in logs.
*/
package services
