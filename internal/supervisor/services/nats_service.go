// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"
)

// EmbeddedServer is the lifecycle of an in-process broker.
// It is implemented by *events.EmbeddedServer.
type EmbeddedServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// EmbeddedNATSService owns an embedded NATS server that was started before
// the tree. It shuts the server down when the tree stops and leaves
// supervision if the server exits on its own.
type EmbeddedNATSService struct {
	server          EmbeddedServer
	shutdownTimeout time.Duration
	pollInterval    time.Duration
	name            string
}

// NewEmbeddedNATSService wraps server.
func NewEmbeddedNATSService(server EmbeddedServer, shutdownTimeout time.Duration) *EmbeddedNATSService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EmbeddedNATSService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		pollInterval:    5 * time.Second,
		name:            "embedded-nats",
	}
}

// Serve implements suture.Service.
func (s *EmbeddedNATSService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			if !s.server.IsRunning() {
				// A dead embedded server cannot be restarted in place.
				return suture.ErrDoNotRestart
			}
		}
	}
}

func (s *EmbeddedNATSService) String() string {
	return s.name
}
