// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/feedrank/internal/interest"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/supervisor/services"
	"github.com/tomtom215/feedrank/internal/views"
)

type mockFeed struct {
	mu      sync.Mutex
	lastReq models.FeedRequest
	result  *models.FeedResult
	ads     []models.Ad
	err     error
}

func (m *mockFeed) GetFeed(_ context.Context, req models.FeedRequest) (*models.FeedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &models.FeedResult{}, nil
	}
	return m.result, nil
}

func (m *mockFeed) Ads(_ context.Context, _ string) ([]models.Ad, error) {
	return m.ads, m.err
}

func (m *mockFeed) Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (m *mockFeed) request() models.FeedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

type mockViews struct {
	mu       sync.Mutex
	recorded []models.ViewEvent
	drained  int
	stats    views.Stats
}

func (m *mockViews) Record(_ context.Context, acting string, ev models.ViewEvent) (func(context.Context), error) {
	if ev.UserID != acting {
		return nil, views.ErrUnauthorized
	}
	m.mu.Lock()
	m.recorded = append(m.recorded, ev)
	m.mu.Unlock()
	return func(context.Context) {
		m.mu.Lock()
		m.drained++
		m.mu.Unlock()
	}, nil
}

func (m *mockViews) Stats() views.Stats { return m.stats }

func (m *mockViews) snapshot() ([]models.ViewEvent, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ViewEvent(nil), m.recorded...), m.drained
}

type mockTasks struct {
	mu    sync.Mutex
	tasks []services.Task
	full  bool
}

func (m *mockTasks) Submit(task services.Task) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full {
		return false
	}
	m.tasks = append(m.tasks, task)
	return true
}

func (m *mockTasks) runAll(ctx context.Context) {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = nil
	m.mu.Unlock()
	for _, t := range tasks {
		t(ctx)
	}
}

type mockProfiles struct {
	profile interest.Profile
	err     error
	users   []string
}

func (m *mockProfiles) Rebuild(_ context.Context, userID string) (interest.Profile, error) {
	m.users = append(m.users, userID)
	return m.profile, m.err
}

type mockStore struct {
	pingErr error
	breaker string
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }
func (m *mockStore) BreakerState() string      { return m.breaker }

type mockCounters struct {
	counters map[[2]string]*models.ViewCounter
	err      error
}

func (m *mockCounters) ViewCounter(_ context.Context, userID, contractID string) (*models.ViewCounter, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.counters[[2]string{userID, contractID}], nil
}

var errBoom = errors.New("boom")
