// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package interest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/feedrank/internal/logging"
)

const profileKeyPrefix = "profile:"

// BadgerStore persists profiles in BadgerDB, one JSON document per user.
type BadgerStore struct {
	db *badger.DB

	// mu serializes writers so Update is atomic and count stays exact.
	mu     sync.Mutex
	count  int
	closed bool
}

// OpenBadgerStore opens (or creates) a store at path. An empty path opens an
// in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("create interest store directory: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return NewBadgerStore(db)
}

// NewBadgerStore wraps an open BadgerDB and counts the profiles it holds.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	s := &BadgerStore{db: db}

	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(profileKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			s.count++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	logging.Info().Int("profiles", s.count).Msg("Interest store opened")
	return s, nil
}

func profileKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}

// readProfile returns (nil, false, nil) for a missing key.
func readProfile(txn *badger.Txn, userID string) (Profile, bool, error) {
	item, err := txn.Get(profileKey(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get profile: %w", err)
	}

	p := make(Profile)
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &p)
	})
	if err != nil {
		return nil, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, true, nil
}

func (s *BadgerStore) Get(_ context.Context, userID string) (Profile, bool, error) {
	if s.isClosed() {
		return nil, false, ErrStoreClosed
	}
	var (
		p  Profile
		ok bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		p, ok, err = readProfile(txn, userID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return p, ok, nil
}

func (s *BadgerStore) Has(_ context.Context, userID string) (bool, error) {
	if s.isClosed() {
		return false, ErrStoreClosed
	}
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("has profile: %w", err)
	}
	return found, nil
}

func (s *BadgerStore) Set(_ context.Context, userID string, p Profile) error {
	return s.write(userID, func(Profile) (Profile, error) {
		if p == nil {
			return make(Profile), nil
		}
		return p, nil
	})
}

func (s *BadgerStore) Update(_ context.Context, userID string, fn func(Profile)) error {
	return s.write(userID, func(current Profile) (Profile, error) {
		if current == nil {
			current = make(Profile)
		}
		fn(current)
		return current, nil
	})
}

// write replaces a user's profile with next(current) in one transaction.
func (s *BadgerStore) write(userID string, next func(current Profile) (Profile, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		current, ok, err := readProfile(txn, userID)
		if err != nil {
			return err
		}
		created = !ok

		p, err := next(current)
		if err != nil {
			return err
		}
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		return txn.Set(profileKey(userID), data)
	})
	if err != nil {
		return err
	}
	if created {
		s.count++
	}
	return nil
}

func (s *BadgerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *BadgerStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
