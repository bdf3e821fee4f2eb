// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package models

import "time"

// Contract is a rankable content item.
type Contract struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Question        string    `json:"question"`
	CreatorID       string    `json:"creatorId"`
	Visibility      string    `json:"visibility"`
	CreatedTime     time.Time `json:"createdTime"`
	CloseTime       time.Time `json:"closeTime"`
	ViewCount       int64     `json:"viewCount"`
	ConversionScore float64   `json:"conversionScore"`
	ImportanceScore float64   `json:"importanceScore"`
	FreshnessScore  float64   `json:"freshnessScore"`
}

// Comment is a contract comment attached to a repost.
type Comment struct {
	ID          string    `json:"id"`
	ContractID  string    `json:"contractId"`
	UserID      string    `json:"userId"`
	Text        string    `json:"text"`
	BetID       string    `json:"betId,omitempty"`
	Likes       int64     `json:"likes"`
	CreatedTime time.Time `json:"createdTime"`
}

// Bet is the bet a reposted comment refers to.
type Bet struct {
	ID          string    `json:"id"`
	ContractID  string    `json:"contractId"`
	UserID      string    `json:"userId"`
	Outcome     string    `json:"outcome"`
	Amount      float64   `json:"amount"`
	CreatedTime time.Time `json:"createdTime"`
}

// Repost is a post by a user re-sharing a comment on a contract.
type Repost struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ContractID  string    `json:"contractId"`
	CommentID   string    `json:"contractCommentId"`
	BetID       string    `json:"betId,omitempty"`
	CreatedTime time.Time `json:"createdTime"`
}

// Ad is a sponsored placement competing for feed slots by bid.
type Ad struct {
	ID          string  `json:"id"`
	ContractID  string  `json:"marketId"`
	Funds       float64 `json:"funds"`
	CostPerView float64 `json:"costPerView"`
}

// AdContract is an ad surfaced alongside the organic feed.
type AdContract struct {
	AdID     string   `json:"adId"`
	Contract Contract `json:"contract"`
}

// PrivateUser holds the block lists applied to every candidate query.
type PrivateUser struct {
	ID                 string   `json:"id"`
	BlockedUserIDs     []string `json:"blockedUserIds"`
	BlockedByUserIDs   []string `json:"blockedByUserIds"`
	BlockedContractIDs []string `json:"blockedContractIds"`
	BlockedGroupSlugs  []string `json:"blockedGroupSlugs"`
}

// BlockedCreatorIDs returns the users blocked in either direction.
func (p *PrivateUser) BlockedCreatorIDs() []string {
	ids := make([]string, 0, len(p.BlockedUserIDs)+len(p.BlockedByUserIDs))
	seen := make(map[string]struct{}, cap(ids))
	for _, list := range [][]string{p.BlockedUserIDs, p.BlockedByUserIDs} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
