// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"sort"

	"github.com/tomtom215/feedrank/internal/models"
)

// Retrieved holds the rows returned by each shape, in retrieval order.
type Retrieved map[models.Shape][]models.Candidate

// organicShapes are merged into the ranked list, in this order.
var organicShapes = []models.Shape{
	models.ShapeConversion,
	models.ShapeImportance,
	models.ShapeFreshness,
	models.ShapeFollowed,
	models.ShapeReposts,
}

// reasonRanking is consulted once per item; the first reason whose shape
// surfaced the item wins.
var reasonRanking = []struct {
	reason models.Reason
	shape  models.Shape
}{
	{models.ReasonFollowed, models.ShapeFollowed},
	{models.ReasonConversion, models.ShapeConversion},
	{models.ReasonImportance, models.ShapeImportance},
	{models.ReasonFreshness, models.ShapeFreshness},
}

type idSet map[string]struct{}

func idsOf(cands []models.Candidate) idSet {
	s := make(idSet, len(cands))
	for i := range cands {
		s[cands[i].Contract.ID] = struct{}{}
	}
	return s
}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

// Merge ranks, deduplicates and attributes the retrieved rows.
func Merge(r Retrieved) *models.FeedResult {
	total := 0
	for _, shape := range organicShapes {
		total += len(r[shape])
	}

	ranked := make([]models.Candidate, 0, total)
	for _, shape := range organicShapes {
		ranked = append(ranked, r[shape]...)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore() > ranked[j].CompositeScore()
	})

	result := &models.FeedResult{
		Contracts:   make([]models.Contract, 0, len(ranked)),
		Ads:         []models.AdContract{},
		IDsToReason: make(map[string]models.Reason, len(ranked)),
		Comments:    []models.Comment{},
		Bets:        []models.Bet{},
		Reposts:     []models.Repost{},
	}

	sources := make(map[models.Shape]idSet, len(reasonRanking))
	for _, rr := range reasonRanking {
		sources[rr.shape] = idsOf(r[rr.shape])
	}

	organic := make(idSet, len(ranked))
	for i := range ranked {
		c := ranked[i].Contract
		if organic.has(c.ID) {
			continue
		}
		organic[c.ID] = struct{}{}
		result.Contracts = append(result.Contracts, c)
		result.IDsToReason[c.ID] = reasonFor(c.ID, sources)
	}

	// A contract in two of the user's topics comes back once per topic.
	advertised := make(idSet)
	for _, cand := range r[models.ShapeSponsored] {
		id := cand.Contract.ID
		if organic.has(id) || advertised.has(id) {
			continue
		}
		advertised[id] = struct{}{}
		result.Ads = append(result.Ads, models.AdContract{AdID: cand.AdID, Contract: cand.Contract})
	}

	for _, cand := range r[models.ShapeReposts] {
		if cand.Comment != nil {
			result.Comments = append(result.Comments, *cand.Comment)
		}
		if cand.Bet != nil {
			result.Bets = append(result.Bets, *cand.Bet)
		}
		if cand.Repost != nil {
			result.Reposts = append(result.Reposts, *cand.Repost)
		}
	}

	return result
}

func reasonFor(id string, sources map[models.Shape]idSet) models.Reason {
	for _, rr := range reasonRanking {
		if sources[rr.shape].has(id) {
			return rr.reason
		}
	}
	return models.ReasonNone
}
