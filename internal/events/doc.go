// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package events publishes view events to a Watermill message bus.

Every view written by the ingestion queue is announced as a ViewRecorded
event on the configured topic (default feed.views.recorded). Publishing is
best effort: failures are logged and counted but never affect the write.

# Drivers

  - gochannel: in-process Watermill GoChannel. Useful for single-node
    deployments and tests; Subscribe returns the local stream.
  - nats: NATS JetStream through watermill-nats. The stream is created or
    updated on Open, named after the topic (feed.views.recorded becomes
    FEED_VIEWS_RECORDED).

An embedded single-node NATS server can be started with NewEmbeddedServer
when no external broker is available.

# Resilience

Publishes run through a sony/gobreaker circuit breaker when
events.breaker_failures is set, so a dead broker costs one fast rejection
per view instead of a connect timeout. Message ids double as Nats-Msg-Id
headers for JetStream deduplication.
*/
package events
