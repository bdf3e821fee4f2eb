// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

func TestInterestSource_SortedAndCast(t *testing.T) {
	t.Parallel()

	frag := interestSource(map[string]float64{"g2": 0.5, "g1": 2})

	want := "(VALUES (?::VARCHAR, ?::DOUBLE), (?::VARCHAR, ?::DOUBLE)) AS uti(group_id, score)"
	if frag.SQL != want {
		t.Errorf("SQL = %q, want %q", frag.SQL, want)
	}
	if len(frag.Args) != 4 || frag.Args[0] != "g1" || frag.Args[1] != 2.0 || frag.Args[2] != "g2" {
		t.Errorf("unexpected args %v", frag.Args)
	}
}

func TestExclusionFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   FeedParams
		wantSQL  []string
		wantArgs int
	}{
		{
			name:     "no blocklists keeps only disinterest",
			params:   FeedParams{UserID: "u1"},
			wantSQL:  []string{"user_disinterests"},
			wantArgs: 1,
		},
		{
			name: "every list applied",
			params: FeedParams{
				UserID:             "u1",
				IgnoreContractIDs:  []string{"c1", "c2"},
				BlockedCreatorIDs:  []string{"bad"},
				BlockedContractIDs: []string{"c9"},
				BlockedGroupSlugs:  []string{"politics"},
			},
			wantSQL: []string{
				"user_disinterests",
				"c.id NOT IN (?, ?)",
				"c.creator_id NOT IN (?)",
				"c.id NOT IN (?)",
				"bg.slug IN (?)",
			},
			wantArgs: 6,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var sqlParts []string
			var args []interface{}
			for _, f := range exclusionFilter(&tt.params) {
				if f.IsZero() {
					continue
				}
				sqlParts = append(sqlParts, f.SQL)
				args = append(args, f.Args...)
			}
			joined := strings.Join(sqlParts, " AND ")
			for _, want := range tt.wantSQL {
				if !strings.Contains(joined, want) {
					t.Errorf("expected %q in %q", want, joined)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
		})
	}
}

// Every topic-joined shape carries the same base filter.
func TestBuildTopicShape_SharesBaseFilter(t *testing.T) {
	t.Parallel()

	p := FeedParams{
		UserID:            "u1",
		Interests:         map[string]float64{"g1": 1},
		Now:               time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Limit:             10,
		IgnoreContractIDs: []string{"skip"},
		BlockedGroupSlugs: []string{"nsfw"},
	}

	for _, shape := range []models.Shape{
		models.ShapeConversion, models.ShapeImportance, models.ShapeFreshness,
		models.ShapeFollowed, models.ShapeSponsored,
	} {
		shape := shape
		t.Run(string(shape), func(t *testing.T) {
			t.Parallel()

			sb, err := buildTopicShape(shape, &p)
			if err != nil {
				t.Fatalf("buildTopicShape() error = %v", err)
			}
			sqlText, args := sb.Build()

			for _, want := range []string{
				"c.close_time > ? AND c.visibility = 'public'",
				"user_disinterests",
				"c.id NOT IN (?)",
				"bg.slug IN (?)",
				"LIMIT ? OFFSET ?",
			} {
				if !strings.Contains(sqlText, want) {
					t.Errorf("expected %q in:\n%s", want, sqlText)
				}
			}

			hasViewFilter := strings.Contains(sqlText, "cv.latest_seen_time IS NULL")
			if hasViewFilter != shape.IsDiscovery() {
				t.Errorf("not-yet-viewed filter present = %v, want %v", hasViewFilter, shape.IsDiscovery())
			}

			if got := strings.Count(sqlText, "?"); got != len(args) {
				t.Errorf("placeholders %d != args %d", got, len(args))
			}
		})
	}
}

func TestBuildTopicShape_OrderKeys(t *testing.T) {
	t.Parallel()

	p := FeedParams{UserID: "u1", Interests: map[string]float64{"g1": 1}, Limit: 5}
	tests := map[models.Shape]string{
		models.ShapeConversion: "ORDER BY uti.score * c.conversion_score DESC, c.id",
		models.ShapeImportance: "ORDER BY uti.score * c.importance_score DESC, c.id",
		models.ShapeFreshness:  "ORDER BY uti.score * c.freshness_score DESC, c.id",
		models.ShapeFollowed:   "ORDER BY c.conversion_score DESC, c.id",
		models.ShapeSponsored:  "ORDER BY uti.score * c.conversion_score * ma.cost_per_view DESC, c.id",
	}
	for shape, want := range tests {
		sb, err := buildTopicShape(shape, &p)
		if err != nil {
			t.Fatalf("%s: %v", shape, err)
		}
		sqlText, _ := sb.Build()
		if !strings.Contains(sqlText, want) {
			t.Errorf("%s: expected %q in:\n%s", shape, want, sqlText)
		}
	}
}

func TestBuildTopicShape_UnknownShape(t *testing.T) {
	t.Parallel()

	_, err := buildTopicShape(models.Shape("trending"), &FeedParams{})
	if !errors.Is(err, ErrUnknownShape) {
		t.Errorf("err = %v, want ErrUnknownShape", err)
	}
}

func TestBuildRepostShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	p := FeedParams{UserID: "u1", Now: now, Limit: 10, BlockedCreatorIDs: []string{"bad"}}

	sqlText, args := buildRepostShape(&p).Build()

	for _, want := range []string{
		"JOIN user_follows uf ON uf.follow_id = p.user_id AND uf.user_id = ?",
		"c.creator_id NOT IN (?)",
		"p.created_time > ?",
		"ORDER BY p.created_time DESC, p.id",
	} {
		if !strings.Contains(sqlText, want) {
			t.Errorf("expected %q in:\n%s", want, sqlText)
		}
	}
	if strings.Contains(sqlText, "uti.") {
		t.Error("reposts must not join the interest table")
	}

	cutoff := now.Add(-DefaultRepostWindow)
	found := false
	for _, a := range args {
		if ts, ok := a.(time.Time); ok && ts.Equal(cutoff) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected repost window cutoff %v in args %v", cutoff, args)
	}
}

func TestApplyRepostDecay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name           string
		age            time.Duration
		likes          int64
		withComment    bool
		wantImportance float64
		wantFreshness  float64
	}{
		{name: "same day clamps to one", age: 2 * time.Hour, likes: 3, withComment: true, wantImportance: 5, wantFreshness: 3},
		{name: "four days", age: 4 * 24 * time.Hour, likes: 6, withComment: true, wantImportance: 2, wantFreshness: 0.75},
		{name: "no comment adds no likes", age: 2 * 24 * time.Hour, wantImportance: 1, wantFreshness: 1.5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cand := models.Candidate{
				Contract: models.Contract{ConversionScore: 7, ImportanceScore: 2, FreshnessScore: 2},
				Repost:   &models.Repost{CreatedTime: now.Add(-tt.age)},
			}
			if tt.withComment {
				cand.Comment = &models.Comment{Likes: tt.likes}
			}
			applyRepostDecay(&cand, now)

			if cand.Contract.ImportanceScore != tt.wantImportance {
				t.Errorf("importance = %v, want %v", cand.Contract.ImportanceScore, tt.wantImportance)
			}
			if cand.Contract.FreshnessScore != tt.wantFreshness {
				t.Errorf("freshness = %v, want %v", cand.Contract.FreshnessScore, tt.wantFreshness)
			}
			if cand.Contract.ConversionScore != 7 {
				t.Errorf("conversion changed to %v", cand.Contract.ConversionScore)
			}
			if cand.TopicScore != 1 {
				t.Errorf("topic score = %v, want 1", cand.TopicScore)
			}
		})
	}
}
