// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package validation

// FeedRequest holds the query parameters of GET /api/v1/feed. Limit and
// Offset are bounded here; the feed engine clamps them again to its own
// configured maximum.
type FeedRequest struct {
	UserID            string   `query:"userId" validate:"required,max=128"`
	Limit             int      `query:"limit" validate:"gte=0,lte=1000"`
	Offset            int      `query:"offset" validate:"gte=0,lte=1000000"`
	IgnoreContractIDs []string `query:"ignoreContractIds" validate:"max=500,dive,required,max=128"`
}

// AdsRequest holds the query parameters of GET /api/v1/ads.
type AdsRequest struct {
	UserID string `query:"userId" validate:"required,max=128"`
}

// ViewCounterRequest addresses one counter row for GET
// /api/v1/admin/views/counters/{contractID}. An empty UserID reads the shared
// anonymous row.
type ViewCounterRequest struct {
	ContractID string `query:"contractId" validate:"required,max=128"`
	UserID     string `query:"userId" validate:"max=128"`
}

// ViewRequest is the body of POST /api/v1/views.
type ViewRequest struct {
	ContractID string `json:"contractId" validate:"required,max=128"`
	UserID     string `json:"userId" validate:"max=128"`
	Kind       string `json:"kind" validate:"required,viewkind"`
}
