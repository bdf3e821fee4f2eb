// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/feedrank/internal/database/query"
)

// GroupMembership is one (member, group) row.
type GroupMembership struct {
	UserID  string
	GroupID string
}

// TopicInterests scores a user's topics from their most recent engagement.
// The candidates most recent interactions are grouped by the groups their
// contracts belong to; each group scores the average conversion score of its
// contracts. At most limit groups are returned, best first.
func (db *DB) TopicInterests(ctx context.Context, userID string, candidates, limit int) (map[string]float64, error) {
	const q = `
		SELECT gc.group_id, AVG(c.conversion_score) AS score
		FROM (
			SELECT contract_id
			FROM user_contract_interactions
			WHERE user_id = ?
			ORDER BY created_time DESC
			LIMIT ?
		) i
		JOIN group_contracts gc ON gc.contract_id = i.contract_id
		JOIN contracts c ON c.id = i.contract_id
		GROUP BY gc.group_id
		ORDER BY score DESC, gc.group_id
		LIMIT ?`

	scores := make(map[string]float64)
	err := db.guard("SELECT", "user_contract_interactions", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()

		rows, err := db.conn.QueryContext(qctx, q, userID, candidates, limit)
		if err != nil {
			return err
		}
		defer closeWithLog(rows, "rows")

		for rows.Next() {
			var groupID string
			var score float64
			if err := rows.Scan(&groupID, &score); err != nil {
				return fmt.Errorf("failed to scan topic interest: %w", err)
			}
			if score < 0 {
				score = 0
			}
			scores[groupID] = score
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load topic interests for %s: %w", userID, err)
	}
	return scores, nil
}

// GroupMemberships returns every group membership of the given users.
func (db *DB) GroupMemberships(ctx context.Context, userIDs []string) ([]GroupMembership, error) {
	if len(userIDs) == 0 {
		return []GroupMembership{}, nil
	}

	sqlText, args := query.NewSelect("member_id", "group_id").
		From(query.Frag("group_members")).
		Where(query.In("member_id", userIDs)).
		OrderBy("member_id", "group_id").
		Build()

	memberships := []GroupMembership{}
	err := db.guard("SELECT", "group_members", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()

		rows, err := db.conn.QueryContext(qctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer closeWithLog(rows, "rows")

		memberships = memberships[:0]
		for rows.Next() {
			var m GroupMembership
			if err := rows.Scan(&m.UserID, &m.GroupID); err != nil {
				return fmt.Errorf("failed to scan membership: %w", err)
			}
			memberships = append(memberships, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load group memberships: %w", err)
	}
	return memberships, nil
}

// RecentlyActiveUsers lists users with an interaction after since.
func (db *DB) RecentlyActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	const q = `
		SELECT DISTINCT user_id
		FROM user_contract_interactions
		WHERE created_time > ?
		ORDER BY user_id`

	ids := []string{}
	err := db.guard("SELECT", "user_contract_interactions", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()

		rows, err := db.conn.QueryContext(qctx, q, since.UTC())
		if err != nil {
			return err
		}
		defer closeWithLog(rows, "rows")

		ids = ids[:0]
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("failed to scan user id: %w", err)
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recently active users: %w", err)
	}
	return ids, nil
}
