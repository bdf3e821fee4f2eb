// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package interest

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/feedrank/internal/config"
)

// ErrStoreClosed is returned by a Store used after Close.
var ErrStoreClosed = errors.New("interest store closed")

// Profile maps a topic id to the user's weight for it.
type Profile map[string]float64

// Clone returns a copy that shares no state with p.
func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Store holds interest profiles keyed by user id. Implementations are safe
// for concurrent use and never hand out their internal maps.
type Store interface {
	Get(ctx context.Context, userID string) (Profile, bool, error)
	Set(ctx context.Context, userID string, p Profile) error
	Has(ctx context.Context, userID string) (bool, error)
	Len() int

	// Update applies fn to the user's current profile, or to an empty one if
	// the user has none, atomically with respect to Set and other Updates.
	Update(ctx context.Context, userID string, fn func(Profile)) error

	Close() error
}

// NewStore builds the store selected by cfg.Store.
func NewStore(cfg *config.InterestConfig) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(), nil
	case "lru":
		return NewLRUStore(cfg.Capacity), nil
	case "badger":
		return OpenBadgerStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown interest store %q", cfg.Store)
	}
}
