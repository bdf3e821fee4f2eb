// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"testing"

	"github.com/tomtom215/feedrank/internal/models"
)

func cand(id string, topic, conv, imp, fresh float64) models.Candidate {
	return models.Candidate{
		Contract: models.Contract{
			ID:              id,
			ConversionScore: conv,
			ImportanceScore: imp,
			FreshnessScore:  fresh,
		},
		TopicScore: topic,
	}
}

func contractIDs(cs []models.Contract) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMerge_Empty(t *testing.T) {
	t.Parallel()

	got := Merge(Retrieved{})
	if got.Contracts == nil || got.Ads == nil || got.Comments == nil || got.Bets == nil || got.Reposts == nil {
		t.Fatal("Merge() must return empty slices, not nil")
	}
	if len(got.Contracts) != 0 || len(got.IDsToReason) != 0 {
		t.Errorf("Merge() = %+v, want empty result", got)
	}
}

func TestMerge_RanksByCompositeScore(t *testing.T) {
	t.Parallel()

	r := Retrieved{
		models.ShapeConversion: {cand("a", 1, 2, 1, 1), cand("b", 1, 1, 1, 1)},
		models.ShapeImportance: {cand("c", 1, 1, 3, 1)},
		models.ShapeFreshness:  {cand("d", 0.5, 1, 1, 1)},
	}

	got := Merge(r)
	want := []string{"c", "a", "b", "d"}
	if ids := contractIDs(got.Contracts); !equalStrings(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestMerge_TiesKeepRetrievalOrder(t *testing.T) {
	t.Parallel()

	r := Retrieved{
		models.ShapeConversion: {cand("a", 1, 1, 1, 1)},
		models.ShapeImportance: {cand("b", 1, 1, 1, 1)},
		models.ShapeFreshness:  {cand("c", 1, 1, 1, 1)},
		models.ShapeFollowed:   {cand("d", 1, 1, 1, 1)},
		models.ShapeReposts:    {cand("e", 1, 1, 1, 1)},
	}

	got := Merge(r)
	want := []string{"a", "b", "c", "d", "e"}
	if ids := contractIDs(got.Contracts); !equalStrings(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestMerge_DedupKeepsHighestRankedCopy(t *testing.T) {
	t.Parallel()

	low := cand("x", 1, 1, 1, 1)
	high := cand("x", 1, 1, 4, 1)
	high.Contract.Question = "importance copy"

	r := Retrieved{
		models.ShapeConversion: {low},
		models.ShapeImportance: {high},
	}

	got := Merge(r)
	if len(got.Contracts) != 1 {
		t.Fatalf("len(Contracts) = %d, want 1", len(got.Contracts))
	}
	if got.Contracts[0].Question != "importance copy" {
		t.Errorf("kept %q, want the higher scored copy", got.Contracts[0].Question)
	}
}

func TestMerge_Reasons(t *testing.T) {
	t.Parallel()

	repostOnly := cand("r", 1, 1, 1, 1)

	r := Retrieved{
		models.ShapeConversion: {cand("both", 1, 1, 1, 1), cand("conv", 1, 1, 1, 1)},
		models.ShapeImportance: {cand("conv", 1, 1, 1, 1), cand("imp", 1, 1, 1, 1)},
		models.ShapeFreshness:  {cand("fresh", 1, 1, 1, 1), cand("imp", 1, 1, 1, 1)},
		models.ShapeFollowed:   {cand("both", 1, 1, 1, 1)},
		models.ShapeReposts:    {repostOnly},
	}

	got := Merge(r)
	tests := map[string]models.Reason{
		"both":  models.ReasonFollowed,
		"conv":  models.ReasonConversion,
		"imp":   models.ReasonImportance,
		"fresh": models.ReasonFreshness,
		"r":     models.ReasonNone,
	}
	for id, want := range tests {
		reason, ok := got.IDsToReason[id]
		if !ok {
			t.Errorf("IDsToReason missing %q", id)
			continue
		}
		if reason != want {
			t.Errorf("IDsToReason[%q] = %q, want %q", id, reason, want)
		}
	}
	if len(got.IDsToReason) != len(got.Contracts) {
		t.Errorf("reasons for %d ids, want one per contract (%d)", len(got.IDsToReason), len(got.Contracts))
	}
}

func TestMerge_AdsExcludeOrganicAndDuplicates(t *testing.T) {
	t.Parallel()

	ad := func(adID, contractID string) models.Candidate {
		c := cand(contractID, 1, 1, 1, 1)
		c.AdID = adID
		return c
	}

	r := Retrieved{
		models.ShapeConversion: {cand("organic", 1, 1, 1, 1)},
		models.ShapeSponsored: {
			ad("ad-1", "organic"),
			ad("ad-2", "promo"),
			ad("ad-2", "promo"),
			ad("ad-3", "other"),
		},
	}

	got := Merge(r)
	if len(got.Ads) != 2 {
		t.Fatalf("len(Ads) = %d, want 2: %+v", len(got.Ads), got.Ads)
	}
	if got.Ads[0].AdID != "ad-2" || got.Ads[0].Contract.ID != "promo" {
		t.Errorf("Ads[0] = %+v, want ad-2/promo", got.Ads[0])
	}
	if got.Ads[1].AdID != "ad-3" {
		t.Errorf("Ads[1] = %+v, want ad-3", got.Ads[1])
	}
	if _, ok := got.IDsToReason["promo"]; ok {
		t.Error("ads must not be attributed a reason")
	}
}

func TestMerge_RepostAttachments(t *testing.T) {
	t.Parallel()

	withBet := cand("c1", 1, 1, 1, 1)
	withBet.Comment = &models.Comment{ID: "cm1", BetID: "b1"}
	withBet.Bet = &models.Bet{ID: "b1"}
	withBet.Repost = &models.Repost{ID: "p1"}

	noBet := cand("c2", 1, 1, 1, 1)
	noBet.Comment = &models.Comment{ID: "cm2"}
	noBet.Repost = &models.Repost{ID: "p2"}

	// Same contract reposted twice: one feed item, two attachments.
	again := cand("c1", 1, 1, 1, 1)
	again.Comment = &models.Comment{ID: "cm3"}
	again.Repost = &models.Repost{ID: "p3"}

	got := Merge(Retrieved{models.ShapeReposts: {withBet, noBet, again}})

	if len(got.Contracts) != 2 {
		t.Errorf("len(Contracts) = %d, want 2", len(got.Contracts))
	}
	if len(got.Comments) != 3 || got.Comments[0].ID != "cm1" || got.Comments[2].ID != "cm3" {
		t.Errorf("Comments = %+v", got.Comments)
	}
	if len(got.Bets) != 1 || got.Bets[0].ID != "b1" {
		t.Errorf("Bets = %+v", got.Bets)
	}
	if len(got.Reposts) != 3 || got.Reposts[1].ID != "p2" {
		t.Errorf("Reposts = %+v", got.Reposts)
	}
}
