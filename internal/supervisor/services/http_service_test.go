// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// mockHTTPServer implements HTTPServer.
type mockHTTPServer struct {
	serveErr    error
	shutdownErr error
	started     chan struct{}
	stop        chan struct{}
	shutdowns   atomic.Int32
	stopOnce    sync.Once
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (m *mockHTTPServer) Serve(l net.Listener) error {
	defer l.Close()
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.serveErr != nil {
		return m.serveErr
	}
	<-m.stop
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdowns.Add(1)
	m.stopOnce.Do(func() { close(m.stop) })
	return m.shutdownErr
}

// mockFlusher records when it ran relative to the server's shutdown.
type mockFlusher struct {
	server    *mockHTTPServer
	left      int
	calls     atomic.Int32
	afterStop atomic.Bool
	deadline  atomic.Bool
}

func (f *mockFlusher) Flush(ctx context.Context) int {
	f.calls.Add(1)
	f.afterStop.Store(f.server.shutdowns.Load() > 0)
	_, ok := ctx.Deadline()
	f.deadline.Store(ok)
	return f.left
}

func quietLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newTestHTTPService(server HTTPServer) *HTTPServerService {
	return NewHTTPServerService(server, "127.0.0.1:0", time.Second, quietLogger())
}

var _ suture.Service = (*HTTPServerService)(nil)

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, d := range []time.Duration{0, -5 * time.Second} {
		if svc := NewHTTPServerService(newMockHTTPServer(), ":0", d, quietLogger()); svc.shutdownTimeout != 10*time.Second {
			t.Errorf("NewHTTPServerService(%v) timeout = %v, want 10s", d, svc.shutdownTimeout)
		}
	}
	svc := newTestHTTPService(newMockHTTPServer())
	if got := svc.String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
	if svc.Addr() != nil {
		t.Errorf("Addr() before Serve = %v, want nil", svc.Addr())
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("graceful shutdown flushes after the server stops", func(t *testing.T) {
		server := newMockHTTPServer()
		svc := newTestHTTPService(server)
		first := &mockFlusher{server: server}
		second := &mockFlusher{server: server, left: 3}
		svc.AddFlusher("view-queue", first)
		svc.AddFlusher("other", second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-server.started
		if svc.Addr() == nil {
			t.Fatal("Addr() = nil after the server started")
		}
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
		if server.shutdowns.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", server.shutdowns.Load())
		}
		for name, f := range map[string]*mockFlusher{"first": first, "second": second} {
			if f.calls.Load() != 1 {
				t.Errorf("%s flusher called %d times, want 1", name, f.calls.Load())
			}
			if !f.afterStop.Load() {
				t.Errorf("%s flusher ran before the server shut down", name)
			}
			if !f.deadline.Load() {
				t.Errorf("%s flusher got a context without the shutdown deadline", name)
			}
		}
	})

	t.Run("bind failure", func(t *testing.T) {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer taken.Close()

		server := newMockHTTPServer()
		svc := NewHTTPServerService(server, taken.Addr().String(), time.Second, quietLogger())
		if err := svc.Serve(context.Background()); err == nil {
			t.Fatal("Serve() = nil, want a bind error")
		}
		select {
		case <-server.started:
			t.Error("server started despite the bind failure")
		default:
		}
	})

	t.Run("serve failure", func(t *testing.T) {
		serveErr := errors.New("tls: bad certificate")
		server := newMockHTTPServer()
		server.serveErr = serveErr

		if err := newTestHTTPService(server).Serve(context.Background()); !errors.Is(err, serveErr) {
			t.Errorf("Serve() = %v, want %v", err, serveErr)
		}
	})

	t.Run("shutdown failure still flushes", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.shutdownErr = shutdownErr
		svc := newTestHTTPService(server)
		flusher := &mockFlusher{server: server}
		svc.AddFlusher("view-queue", flusher)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-server.started
		cancel()

		if err := <-errCh; !errors.Is(err, shutdownErr) {
			t.Errorf("Serve() = %v, want %v", err, shutdownErr)
		}
		if flusher.calls.Load() != 1 {
			t.Errorf("flusher called %d times, want 1", flusher.calls.Load())
		}
	})
}

func TestHTTPServerService_RealServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
	svc := newTestHTTPService(server)

	sup := suture.New("test", suture.Spec{Timeout: 2 * time.Second})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if svc.Addr() == nil {
		cancel()
		t.Fatal("server never bound")
	}

	resp, err := http.Get("http://" + svc.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("supervisor returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}
