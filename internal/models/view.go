// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package models

import "time"

// ViewKind is where a contract was seen.
type ViewKind string

const (
	ViewKindCard     ViewKind = "card"
	ViewKindPromoted ViewKind = "promoted"
	ViewKindPage     ViewKind = "page"
)

// Columns returns the timestamp and counter columns tracking this kind.
// ok is false for unknown kinds.
func (k ViewKind) Columns() (tsColumn, countColumn string, ok bool) {
	switch k {
	case ViewKindCard:
		return "last_card_view_ts", "card_views", true
	case ViewKindPromoted:
		return "last_promoted_view_ts", "promoted_views", true
	case ViewKindPage:
		return "last_page_view_ts", "page_views", true
	default:
		return "", "", false
	}
}

// Valid reports whether k is a known view kind.
func (k ViewKind) Valid() bool {
	_, _, ok := k.Columns()
	return ok
}

// ViewEvent is a single view to record. An empty UserID is an anonymous view.
type ViewEvent struct {
	UserID     string   `json:"userId,omitempty"`
	ContractID string   `json:"contractId"`
	Kind       ViewKind `json:"kind"`
}

// IsAnonymous reports whether the view has no signed-in user.
func (e ViewEvent) IsAnonymous() bool {
	return e.UserID == ""
}

// ViewCounter is the persisted view state of a (user, contract) pair.
type ViewCounter struct {
	UserID             string     `json:"userId"`
	ContractID         string     `json:"contractId"`
	LastCardViewTS     *time.Time `json:"lastCardViewTs,omitempty"`
	LastPromotedViewTS *time.Time `json:"lastPromotedViewTs,omitempty"`
	LastPageViewTS     *time.Time `json:"lastPageViewTs,omitempty"`
	CardViews          int64      `json:"cardViews"`
	PromotedViews      int64      `json:"promotedViews"`
	PageViews          int64      `json:"pageViews"`
}
