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
	"github.com/tomtom215/feedrank/internal/models"
)

// TxnCategoryAdRedeem marks a payout from an ad to a viewer.
const TxnCategoryAdRedeem = "MARKET_BOOST_REDEEM"

// adSlate selects funded ads on open contracts the user has not redeemed,
// highest bid first.
func adSlate(userID string, now time.Time, limit int) *query.SelectBuilder {
	return query.NewSelect("a.id", "a.market_id", "a.funds", "a.cost_per_view").
		From(query.Frag("market_ads a")).
		Join(query.Frag("contracts ac ON ac.id = a.market_id")).
		Where(
			query.Frag("a.funds >= a.cost_per_view"),
			query.Frag("ac.close_time > ?", now.UTC()),
			query.Frag(
				"NOT EXISTS (SELECT 1 FROM txns t WHERE t.category = ? AND t.to_id = ? AND t.from_id = a.id)",
				TxnCategoryAdRedeem, userID,
			),
		).
		OrderBy("a.cost_per_view DESC", "a.id").
		Limit(limit, 0)
}

// SelectAds returns the auction slate for the user.
func (db *DB) SelectAds(ctx context.Context, userID string, now time.Time, limit int) ([]models.Ad, error) {
	if limit <= 0 {
		limit = DefaultAdCandidates
	}
	sqlText, args := adSlate(userID, now, limit).Build()

	ads := []models.Ad{}
	err := db.guard("SELECT", "market_ads", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()

		rows, err := db.conn.QueryContext(qctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer closeWithLog(rows, "rows")

		ads = ads[:0]
		for rows.Next() {
			var ad models.Ad
			if err := rows.Scan(&ad.ID, &ad.ContractID, &ad.Funds, &ad.CostPerView); err != nil {
				return fmt.Errorf("failed to scan ad: %w", err)
			}
			ads = append(ads, ad)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select ads: %w", err)
	}
	return ads, nil
}
