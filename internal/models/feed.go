// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package models

// Shape identifies a candidate retrieval query.
type Shape string

const (
	ShapeConversion Shape = "conversion"
	ShapeImportance Shape = "importance"
	ShapeFreshness  Shape = "freshness"
	ShapeFollowed   Shape = "followed"
	ShapeSponsored  Shape = "sponsored"
	ShapeReposts    Shape = "reposts"
)

// AllShapes lists every shape in retrieval order.
var AllShapes = []Shape{
	ShapeConversion,
	ShapeImportance,
	ShapeFreshness,
	ShapeFollowed,
	ShapeSponsored,
	ShapeReposts,
}

// IsDiscovery reports whether the shape only returns contracts the user has
// not viewed yet.
func (s Shape) IsDiscovery() bool {
	return s == ShapeConversion || s == ShapeImportance || s == ShapeFreshness
}

// Candidate is a contract surfaced by one shape.
type Candidate struct {
	Contract Contract

	// TopicScore is the user's interest weight for the topic that surfaced
	// the contract. Reposts always carry 1.
	TopicScore float64

	// AdID is set by the sponsored shape only.
	AdID string

	// Comment, Bet and Repost are set by the reposts shape only. Bet is nil
	// when the reposted comment does not reference a bet.
	Comment *Comment
	Bet     *Bet
	Repost  *Repost
}

// CompositeScore is the global ranking key of the candidate.
func (c *Candidate) CompositeScore() float64 {
	return c.TopicScore *
		c.Contract.ConversionScore *
		c.Contract.ImportanceScore *
		c.Contract.FreshnessScore
}

// Reason is the signal credited for surfacing a feed item.
type Reason string

const (
	ReasonFollowed   Reason = "followed"
	ReasonConversion Reason = "conversion"
	ReasonImportance Reason = "importance"
	ReasonFreshness  Reason = "freshness"
	ReasonNone       Reason = ""
)

// FeedRequest is the input of a feed fetch.
type FeedRequest struct {
	UserID            string
	Limit             int
	Offset            int
	IgnoreContractIDs []string
}

// FeedResult is the output of a feed fetch.
type FeedResult struct {
	Contracts   []Contract        `json:"contracts"`
	Ads         []AdContract      `json:"ads"`
	IDsToReason map[string]Reason `json:"idsToReason"`
	Comments    []Comment         `json:"comments"`
	Bets        []Bet             `json:"bets"`
	Reposts     []Repost          `json:"reposts"`
}
