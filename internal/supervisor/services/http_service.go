// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the lifecycle surface of *http.Server.
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// Flusher finishes work that handlers accepted but left to run in the
// background. *views.Queue implements it.
type Flusher interface {
	// Flush returns the number of items still pending when ctx ends.
	Flush(ctx context.Context) int
}

type namedFlusher struct {
	name string
	f    Flusher
}

// HTTPServerService runs the API server under supervision. On stop it
// refuses new requests, waits for in-flight ones, then flushes every
// registered Flusher within the same shutdown deadline.
//
//	svc := services.NewHTTPServerService(server, ":8080", 10*time.Second, logger)
//	svc.AddFlusher("view-queue", queue)
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	flushers        []namedFlusher

	mu    sync.Mutex
	bound net.Addr
}

// NewHTTPServerService wraps server listening on addr. A non-positive
// shutdownTimeout defaults to 10 seconds.
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// AddFlusher registers f to run after the server stops taking requests.
// Flushers run in registration order. Call before Serve.
func (h *HTTPServerService) AddFlusher(name string, f Flusher) {
	h.flushers = append(h.flushers, namedFlusher{name: name, f: f})
}

// Addr returns the bound listen address, or nil before Serve has bound.
func (h *HTTPServerService) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bound
}

// Serve implements suture.Service. A bind failure is returned at once so the
// supervisor can retry it.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.addr, err)
	}
	h.mu.Lock()
	h.bound = ln.Addr()
	h.mu.Unlock()
	h.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		shutdownErr := h.server.Shutdown(shutdownCtx)
		<-errCh
		h.flush(shutdownCtx)
		if shutdownErr != nil {
			return fmt.Errorf("http server shutdown failed: %w", shutdownErr)
		}
		return ctx.Err()
	}
}

// flush runs even when Shutdown timed out; the flushers then get whatever
// is left of the deadline, which may be nothing.
func (h *HTTPServerService) flush(ctx context.Context) {
	for _, nf := range h.flushers {
		start := time.Now()
		left := nf.f.Flush(ctx)
		ev := h.logger.Info()
		if left > 0 {
			ev = h.logger.Warn()
		}
		ev.Str("flusher", nf.name).
			Int("pending", left).
			Dur("elapsed", time.Since(start)).
			Msg("Flushed background work after HTTP shutdown")
	}
}

func (h *HTTPServerService) String() string {
	return "http-server"
}
