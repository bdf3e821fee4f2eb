// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

func TestTopicInterests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertGroup(t, db, "g1", "science")
	insertGroup(t, db, "g2", "sports")
	insertContract(t, db, models.Contract{ID: "a", ConversionScore: 4}, "g1")
	insertContract(t, db, models.Contract{ID: "b", ConversionScore: 2}, "g1", "g2")
	insertContract(t, db, models.Contract{ID: "old", ConversionScore: 100}, "g2")

	mustExec(t, db, `INSERT INTO user_contract_interactions VALUES ('u1', 'a', 'bet', ?)`, testNow.Add(-time.Hour))
	mustExec(t, db, `INSERT INTO user_contract_interactions VALUES ('u1', 'b', 'comment', ?)`, testNow.Add(-2*time.Hour))
	mustExec(t, db, `INSERT INTO user_contract_interactions VALUES ('u1', 'old', 'bet', ?)`, testNow.Add(-30*24*time.Hour))

	t.Run("bounded by candidates", func(t *testing.T) {
		got, err := db.TopicInterests(ctx, "u1", 2, 100)
		if err != nil {
			t.Fatalf("TopicInterests() error = %v", err)
		}
		if len(got) != 2 || got["g1"] != 3 || got["g2"] != 2 {
			t.Errorf("got %v, want g1=3 g2=2", got)
		}
	})

	t.Run("bounded by limit", func(t *testing.T) {
		got, err := db.TopicInterests(ctx, "u1", 50, 1)
		if err != nil {
			t.Fatal(err)
		}
		// g2 averages 2 and 100.
		if len(got) != 1 || got["g2"] != 51 {
			t.Errorf("got %v, want g2=51", got)
		}
	})

	t.Run("no engagement is empty", func(t *testing.T) {
		got, err := db.TopicInterests(ctx, "nobody", 50, 100)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}

func TestGroupMemberships(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mustExec(t, db, `INSERT INTO group_members VALUES ('g1', 'u1'), ('g2', 'u1'), ('g1', 'u2'), ('g3', 'u3')`)

	got, err := db.GroupMemberships(ctx, []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("GroupMemberships() error = %v", err)
	}
	want := []GroupMembership{{"u1", "g1"}, {"u1", "g2"}, {"u2", "g1"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	empty, err := db.GroupMemberships(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty input: %v, %v", empty, err)
	}
}

func TestRecentlyActiveUsers(t *testing.T) {
	db := setupTestDB(t)

	mustExec(t, db, `INSERT INTO user_contract_interactions VALUES ('u2', 'a', 'bet', ?)`, testNow.Add(-time.Hour))
	mustExec(t, db, `INSERT INTO user_contract_interactions VALUES ('u1', 'a', 'bet', ?)`, testNow.Add(-2*time.Hour))
	mustExec(t, db, `INSERT INTO user_contract_interactions VALUES ('u1', 'b', 'bet', ?)`, testNow.Add(-3*time.Hour))
	mustExec(t, db, `INSERT INTO user_contract_interactions VALUES ('dormant', 'a', 'bet', ?)`, testNow.Add(-60*24*time.Hour))

	got, err := db.RecentlyActiveUsers(context.Background(), testNow.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("RecentlyActiveUsers() error = %v", err)
	}
	if !equalIDs(got, []string{"u1", "u2"}) {
		t.Errorf("got %v, want [u1 u2]", got)
	}
}
