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

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedrank/internal/models"
)

// PrivateUser loads a user's blocklists. A user with no record has no blocks.
func (db *DB) PrivateUser(ctx context.Context, userID string) (*models.PrivateUser, error) {
	var data string
	err := db.guard("SELECT", "private_users", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()
		return db.conn.QueryRowContext(qctx, `SELECT data FROM private_users WHERE id = ?`, userID).Scan(&data)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return &models.PrivateUser{ID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load private user %s: %w", userID, err)
	}

	user := &models.PrivateUser{}
	if err := json.Unmarshal([]byte(data), user); err != nil {
		return nil, fmt.Errorf("failed to decode private user %s: %w", userID, err)
	}
	user.ID = userID
	return user, nil
}

// UpsertPrivateUser stores a user's blocklists.
func (db *DB) UpsertPrivateUser(ctx context.Context, user *models.PrivateUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode private user: %w", err)
	}

	return db.guard("UPSERT", "private_users", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()
		_, err := db.conn.ExecContext(qctx, `
			INSERT INTO private_users (id, data) VALUES (?, ?)
			ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
			user.ID, string(data))
		return err
	})
}
