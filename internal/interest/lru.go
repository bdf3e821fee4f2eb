// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package interest

import (
	"context"
	"sync"
)

// DefaultLRUCapacity is used when no capacity is configured.
const DefaultLRUCapacity = 100000

type lruEntry struct {
	userID  string
	profile Profile
	prev    *lruEntry
	next    *lruEntry
}

// LRUStore is a bounded Store that evicts the least recently used profile.
// An evicted user is simply rebuilt on their next feed request.
//
// The list uses sentinel nodes: head.next is the most recently used entry and
// tail.prev the least recently used.
type LRUStore struct {
	mu sync.Mutex

	capacity int
	items    map[string]*lruEntry
	head     *lruEntry
	tail     *lruEntry

	hits      int64
	misses    int64
	evictions int64
	closed    bool
}

// NewLRUStore creates an LRUStore holding at most capacity profiles.
func NewLRUStore(capacity int) *LRUStore {
	if capacity <= 0 {
		capacity = DefaultLRUCapacity
	}
	s := &LRUStore{
		capacity: capacity,
		items:    make(map[string]*lruEntry),
		head:     &lruEntry{},
		tail:     &lruEntry{},
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

func (s *LRUStore) Get(_ context.Context, userID string) (Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, ErrStoreClosed
	}
	e, ok := s.items[userID]
	if !ok {
		s.misses++
		return nil, false, nil
	}
	s.moveToFront(e)
	s.hits++
	return e.profile.Clone(), true, nil
}

func (s *LRUStore) Set(_ context.Context, userID string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.entry(userID).profile = p.Clone()
	return nil
}

// Has does not update recency.
func (s *LRUStore) Has(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrStoreClosed
	}
	_, ok := s.items[userID]
	return ok, nil
}

func (s *LRUStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *LRUStore) Update(_ context.Context, userID string, fn func(Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	fn(s.entry(userID).profile)
	return nil
}

func (s *LRUStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Stats returns hit, miss and eviction counts.
func (s *LRUStore) Stats() (hits, misses, evictions int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses, s.evictions
}

// entry returns the user's entry, creating an empty one at the front and
// evicting past capacity. Caller holds mu.
func (s *LRUStore) entry(userID string) *lruEntry {
	if e, ok := s.items[userID]; ok {
		s.moveToFront(e)
		return e
	}
	e := &lruEntry{userID: userID, profile: make(Profile)}
	s.addToFront(e)
	s.items[userID] = e
	for len(s.items) > s.capacity {
		s.evictOldest()
	}
	return e
}

func (s *LRUStore) addToFront(e *lruEntry) {
	e.prev = s.head
	e.next = s.head.next
	s.head.next.prev = e
	s.head.next = e
}

func (s *LRUStore) unlink(e *lruEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (s *LRUStore) moveToFront(e *lruEntry) {
	s.unlink(e)
	s.addToFront(e)
}

func (s *LRUStore) evictOldest() {
	oldest := s.tail.prev
	if oldest == s.head {
		return
	}
	s.unlink(oldest)
	delete(s.items, oldest.userID)
	s.evictions++
}
