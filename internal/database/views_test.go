// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

func TestUpsertView_SignedInWindow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ev := models.ViewEvent{UserID: "u1", ContractID: "c1", Kind: models.ViewKindCard}

	steps := []struct {
		name      string
		at        time.Time
		wantCount int64
		wantTS    time.Time
	}{
		{"first view inserts", testNow, 1, testNow},
		{"replay within window is ignored", testNow.Add(time.Second), 1, testNow},
		{"still inside window", testNow.Add(59 * time.Second), 1, testNow},
		{"after window counts again", testNow.Add(61 * time.Second), 2, testNow.Add(61 * time.Second)},
	}

	for _, step := range steps {
		if err := db.UpsertView(ctx, ev, step.at, time.Minute); err != nil {
			t.Fatalf("%s: UpsertView() error = %v", step.name, err)
		}
		vc, err := db.ViewCounter(ctx, "u1", "c1")
		if err != nil || vc == nil {
			t.Fatalf("%s: ViewCounter() = %v, %v", step.name, vc, err)
		}
		if vc.CardViews != step.wantCount {
			t.Errorf("%s: card views = %d, want %d", step.name, vc.CardViews, step.wantCount)
		}
		if vc.LastCardViewTS == nil || !vc.LastCardViewTS.Equal(step.wantTS) {
			t.Errorf("%s: last card view = %v, want %v", step.name, vc.LastCardViewTS, step.wantTS)
		}
	}
}

func TestUpsertView_KindsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	card := models.ViewEvent{UserID: "u1", ContractID: "c1", Kind: models.ViewKindCard}
	page := models.ViewEvent{UserID: "u1", ContractID: "c1", Kind: models.ViewKindPage}

	if err := db.UpsertView(ctx, card, testNow, time.Minute); err != nil {
		t.Fatal(err)
	}
	// First page view on an existing row: no prior page timestamp, so it counts.
	if err := db.UpsertView(ctx, page, testNow.Add(time.Second), time.Minute); err != nil {
		t.Fatal(err)
	}

	vc, err := db.ViewCounter(ctx, "u1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if vc.CardViews != 1 || vc.PageViews != 1 || vc.PromotedViews != 0 {
		t.Errorf("counts card=%d page=%d promoted=%d", vc.CardViews, vc.PageViews, vc.PromotedViews)
	}
	if vc.LastPromotedViewTS != nil {
		t.Errorf("promoted ts = %v, want nil", vc.LastPromotedViewTS)
	}
}

func TestUpsertView_AnonymousAlwaysCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ev := models.ViewEvent{ContractID: "x", Kind: models.ViewKindCard}

	for i := 0; i < 2; i++ {
		if err := db.UpsertView(ctx, ev, testNow, time.Minute); err != nil {
			t.Fatalf("UpsertView() error = %v", err)
		}
	}

	vc, err := db.ViewCounter(ctx, "", "x")
	if err != nil || vc == nil {
		t.Fatalf("ViewCounter() = %v, %v", vc, err)
	}
	if vc.CardViews != 2 {
		t.Errorf("anonymous card views = %d, want 2", vc.CardViews)
	}
}

func TestUpsertView_InvalidKind(t *testing.T) {
	t.Parallel()

	db := &DB{}
	err := db.UpsertView(context.Background(), models.ViewEvent{ContractID: "x", Kind: "hover"}, testNow, time.Minute)
	if !errors.Is(err, ErrInvalidViewKind) {
		t.Errorf("err = %v, want ErrInvalidViewKind", err)
	}
}

func TestViewCounter_Missing(t *testing.T) {
	db := setupTestDB(t)

	vc, err := db.ViewCounter(context.Background(), "u1", "never")
	if err != nil {
		t.Fatal(err)
	}
	if vc != nil {
		t.Errorf("got %+v, want nil", vc)
	}
}
