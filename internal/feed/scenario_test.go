// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/interest"
	"github.com/tomtom215/feedrank/internal/models"
)

// testDBSemaphore serializes DuckDB instances across the package's tests.
var testDBSemaphore = make(chan struct{}, 1)

func setupScenarioDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := database.New(&config.DatabaseConfig{
		Path:         ":memory:",
		MaxMemory:    "1GB",
		QueryTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

func mustExec(t *testing.T, db *database.DB, q string, args ...interface{}) {
	t.Helper()
	if _, err := db.Conn().ExecContext(context.Background(), q, args...); err != nil {
		t.Fatalf("exec %q: %v", q, err)
	}
}

// TestScenario_MembershipOnlyUser walks a user with no engagement but one
// group membership through a cold feed request and a subsequent view.
func TestScenario_MembershipOnlyUser(t *testing.T) {
	db := setupScenarioDB(t)
	ctx := context.Background()

	mustExec(t, db, `INSERT INTO groups (id, slug, name) VALUES ('G', 'g', 'G')`)
	mustExec(t, db, `INSERT INTO group_members (group_id, member_id) VALUES ('G', 'U')`)
	mustExec(t, db, `
		INSERT INTO contracts (id, slug, question, creator_id, visibility, created_time, close_time,
			view_count, conversion_score, importance_score, freshness_score)
		VALUES ('C', 'c', 'Will C resolve YES?', 'someone', 'public', ?, ?, 0, 2, 1, 1)`,
		engineNow.Add(-24*time.Hour), engineNow.Add(24*time.Hour))
	mustExec(t, db, `INSERT INTO group_contracts (group_id, contract_id) VALUES ('G', 'C')`)

	clock := func() time.Time { return engineNow }
	builder := interest.NewBuilder(interest.NewMemoryStore(), db, interest.DefaultBuilderConfig(), interest.WithClock(clock))
	engine := NewEngine(db, builder, DefaultConfig(), WithClock(clock))

	got, err := engine.GetFeed(ctx, models.FeedRequest{UserID: "U", Limit: 20})
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}

	profile, ok, err := builder.Store().Get(ctx, "U")
	if err != nil || !ok {
		t.Fatalf("profile not cached: ok=%v err=%v", ok, err)
	}
	if profile["G"] != 1 {
		t.Errorf("interest[G] = %v, want 1", profile["G"])
	}

	if ids := contractIDs(got.Contracts); !equalStrings(ids, []string{"C"}) {
		t.Fatalf("contracts = %v, want [C]", ids)
	}
	if got.IDsToReason["C"] != models.ReasonConversion {
		t.Errorf("reason[C] = %q, want conversion", got.IDsToReason["C"])
	}
	item := models.Candidate{Contract: got.Contracts[0], TopicScore: profile["G"]}
	if score := item.CompositeScore(); score != 2 {
		t.Errorf("composite score = %v, want 2", score)
	}

	// Once seen, C is no longer a discovery candidate.
	if err := db.UpsertView(ctx, models.ViewEvent{UserID: "U", ContractID: "C", Kind: models.ViewKindCard}, engineNow, database.DefaultViewCountWindow); err != nil {
		t.Fatalf("UpsertView() error = %v", err)
	}
	got, err = engine.GetFeed(ctx, models.FeedRequest{UserID: "U", Limit: 20})
	if err != nil {
		t.Fatalf("GetFeed() after view error = %v", err)
	}
	if len(got.Contracts) != 0 {
		t.Errorf("contracts after view = %v, want none", contractIDs(got.Contracts))
	}
}
