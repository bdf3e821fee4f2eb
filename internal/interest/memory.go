// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package interest

import (
	"context"
	"sync"
)

// MemoryStore is an unbounded in-process Store with no eviction.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	closed   bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, ErrStoreClosed
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, false, nil
	}
	return p.Clone(), true, nil
}

func (s *MemoryStore) Set(_ context.Context, userID string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.profiles[userID] = p.Clone()
	return nil
}

func (s *MemoryStore) Has(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrStoreClosed
	}
	_, ok := s.profiles[userID]
	return ok, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func (s *MemoryStore) Update(_ context.Context, userID string, fn func(Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	p, ok := s.profiles[userID]
	if !ok {
		p = make(Profile)
		s.profiles[userID] = p
	}
	fn(p)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
