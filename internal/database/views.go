// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

// DefaultViewCountWindow is the minimum gap between two counted views of the
// same kind by a signed-in user.
const DefaultViewCountWindow = time.Minute

// UpsertView records one view at now.
//
// The first view of a (user, contract) pair inserts a row with the kind's
// timestamp set and its counter at 1. Later views update the timestamp and
// increment the counter only when the viewer is anonymous, the kind has never
// been seen, or the last counted view of that kind is older than window.
// Anonymous views share the row keyed by the empty user id.
func (db *DB) UpsertView(ctx context.Context, ev models.ViewEvent, now time.Time, window time.Duration) error {
	tsCol, countCol, ok := ev.Kind.Columns()
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidViewKind, ev.Kind)
	}
	if window <= 0 {
		window = DefaultViewCountWindow
	}
	now = now.UTC()

	// Column names come from the fixed ViewKind mapping, never from input.
	q := fmt.Sprintf(`
		INSERT INTO user_contract_views (user_id, contract_id, %[1]s, %[2]s)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (user_id, contract_id) DO UPDATE SET
			%[1]s = EXCLUDED.%[1]s,
			%[2]s = %[2]s + 1
		WHERE user_id = '' OR %[1]s IS NULL OR %[1]s < ?`, tsCol, countCol)

	err := db.guard("UPSERT", "user_contract_views", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()
		_, err := db.conn.ExecContext(qctx, q, ev.UserID, ev.ContractID, now, now.Add(-window))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %s view of %s: %w", ev.Kind, ev.ContractID, err)
	}
	return nil
}

// ViewCounter reads the view state of a (user, contract) pair. It returns
// nil when the pair has never been viewed.
func (db *DB) ViewCounter(ctx context.Context, userID, contractID string) (*models.ViewCounter, error) {
	var (
		vc                  models.ViewCounter
		card, promoted, pag sql.NullTime
	)
	err := db.guard("SELECT", "user_contract_views", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()
		return db.conn.QueryRowContext(qctx, `
			SELECT user_id, contract_id,
				last_card_view_ts, last_promoted_view_ts, last_page_view_ts,
				card_views, promoted_views, page_views
			FROM user_contract_views
			WHERE user_id = ? AND contract_id = ?`, userID, contractID).
			Scan(&vc.UserID, &vc.ContractID, &card, &promoted, &pag,
				&vc.CardViews, &vc.PromotedViews, &vc.PageViews)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read view counter: %w", err)
	}

	vc.LastCardViewTS = nullTimePtr(card)
	vc.LastPromotedViewTS = nullTimePtr(promoted)
	vc.LastPageViewTS = nullTimePtr(pag)
	return &vc, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
