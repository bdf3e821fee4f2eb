// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
//
// user_contract_views stores anonymous views under user_id = '' so the
// (user_id, contract_id) conflict target always matches a prior row.
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS groups (
			id VARCHAR PRIMARY KEY,
			slug VARCHAR NOT NULL,
			name VARCHAR NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS contracts (
			id VARCHAR PRIMARY KEY,
			slug VARCHAR NOT NULL DEFAULT '',
			question VARCHAR NOT NULL DEFAULT '',
			creator_id VARCHAR NOT NULL,
			visibility VARCHAR NOT NULL DEFAULT 'public',
			created_time TIMESTAMP NOT NULL,
			close_time TIMESTAMP NOT NULL,
			view_count BIGINT NOT NULL DEFAULT 0,
			conversion_score DOUBLE NOT NULL DEFAULT 0,
			importance_score DOUBLE NOT NULL DEFAULT 0,
			freshness_score DOUBLE NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS group_contracts (
			group_id VARCHAR NOT NULL,
			contract_id VARCHAR NOT NULL,
			PRIMARY KEY (group_id, contract_id)
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id VARCHAR NOT NULL,
			member_id VARCHAR NOT NULL,
			PRIMARY KEY (group_id, member_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_follows (
			user_id VARCHAR NOT NULL,
			follow_id VARCHAR NOT NULL,
			PRIMARY KEY (user_id, follow_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_disinterests (
			user_id VARCHAR NOT NULL,
			contract_id VARCHAR NOT NULL,
			created_time TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_contract_interactions (
			user_id VARCHAR NOT NULL,
			contract_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL DEFAULT '',
			created_time TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_contract_views (
			user_id VARCHAR NOT NULL,
			contract_id VARCHAR NOT NULL,
			last_card_view_ts TIMESTAMP,
			last_promoted_view_ts TIMESTAMP,
			last_page_view_ts TIMESTAMP,
			card_views BIGINT NOT NULL DEFAULT 0,
			promoted_views BIGINT NOT NULL DEFAULT 0,
			page_views BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, contract_id)
		)`,
		`CREATE TABLE IF NOT EXISTS private_users (
			id VARCHAR PRIMARY KEY,
			data VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS market_ads (
			id VARCHAR PRIMARY KEY,
			market_id VARCHAR NOT NULL,
			funds DOUBLE NOT NULL DEFAULT 0,
			cost_per_view DOUBLE NOT NULL DEFAULT 0,
			created_time TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS txns (
			id VARCHAR PRIMARY KEY,
			category VARCHAR NOT NULL,
			from_id VARCHAR NOT NULL,
			to_id VARCHAR NOT NULL,
			amount DOUBLE NOT NULL DEFAULT 0,
			created_time TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contract_comments (
			comment_id VARCHAR PRIMARY KEY,
			contract_id VARCHAR NOT NULL,
			user_id VARCHAR NOT NULL,
			content VARCHAR NOT NULL DEFAULT '',
			bet_id VARCHAR,
			likes BIGINT NOT NULL DEFAULT 0,
			created_time TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contract_bets (
			bet_id VARCHAR PRIMARY KEY,
			contract_id VARCHAR NOT NULL,
			user_id VARCHAR NOT NULL,
			outcome VARCHAR NOT NULL DEFAULT '',
			amount DOUBLE NOT NULL DEFAULT 0,
			created_time TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			contract_id VARCHAR NOT NULL,
			contract_comment_id VARCHAR,
			bet_id VARCHAR,
			created_time TIMESTAMP NOT NULL
		)`,
	}
}

// createIndexes creates the secondary indexes used by the feed shapes.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

func getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_contracts_close_time ON contracts(close_time)`,
		`CREATE INDEX IF NOT EXISTS idx_contracts_creator ON contracts(creator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_group_contracts_contract ON group_contracts(contract_id)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_member ON group_members(member_id)`,
		`CREATE INDEX IF NOT EXISTS idx_disinterests_user ON user_disinterests(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_time ON user_contract_interactions(user_id, created_time)`,
		`CREATE INDEX IF NOT EXISTS idx_market_ads_market ON market_ads(market_id)`,
		`CREATE INDEX IF NOT EXISTS idx_txns_category_to ON txns(category, to_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_time ON posts(user_id, created_time)`,
	}
}
