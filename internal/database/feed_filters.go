// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/feedrank/internal/database/query"
)

// epochLiteral stands in for a missing view timestamp.
const epochLiteral = "TIMESTAMP '1970-01-01 00:00:00'"

// contractColumns is the column list scanned by scanContract, in order.
var contractColumns = []string{
	"c.id", "c.slug", "c.question", "c.creator_id", "c.visibility",
	"c.created_time", "c.close_time", "c.view_count",
	"c.conversion_score", "c.importance_score", "c.freshness_score",
}

// interestSource renders the profile as an inline VALUES table uti(group_id, score).
// Keys are sorted so identical profiles produce identical statements.
func interestSource(interests map[string]float64) query.Fragment {
	keys := make([]string, 0, len(interests))
	for k := range interests {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys)*2)
	for i, k := range keys {
		rows[i] = "(?::VARCHAR, ?::DOUBLE)"
		args = append(args, k, interests[k])
	}

	return query.Frag(
		fmt.Sprintf("(VALUES %s) AS uti(group_id, score)", strings.Join(rows, ", ")),
		args...,
	)
}

// topicJoins links the interest table to its member contracts.
func topicJoins() []query.Fragment {
	return []query.Fragment{
		query.Frag("groups g ON g.id = uti.group_id"),
		query.Frag("group_contracts gc ON gc.group_id = g.id"),
		query.Frag("contracts c ON c.id = gc.contract_id"),
	}
}

// openAndPublic keeps contracts that have not closed and are publicly listed.
func openAndPublic(now time.Time) query.Fragment {
	return query.Frag("c.close_time > ? AND c.visibility = 'public'", now.UTC())
}

func notDisinterested(userID string) query.Fragment {
	return query.Frag(
		"NOT EXISTS (SELECT 1 FROM user_disinterests ud WHERE ud.user_id = ? AND ud.contract_id = c.id)",
		userID,
	)
}

func notInBlockedGroups(slugs []string) query.Fragment {
	if len(slugs) == 0 {
		return query.Fragment{}
	}
	in := query.In("bg.slug", slugs)
	return query.Frag(
		"NOT EXISTS (SELECT 1 FROM group_contracts bgc JOIN groups bg ON bg.id = bgc.group_id WHERE bgc.contract_id = c.id AND "+in.SQL+")",
		in.Args...,
	)
}

// exclusionFilter is the per-user exclusion set every shape applies.
func exclusionFilter(p *FeedParams) []query.Fragment {
	return []query.Fragment{
		notDisinterested(p.UserID),
		query.NotIn("c.id", p.IgnoreContractIDs),
		query.NotIn("c.creator_id", p.BlockedCreatorIDs),
		query.NotIn("c.id", p.BlockedContractIDs),
		notInBlockedGroups(p.BlockedGroupSlugs),
	}
}

// baseFilter is the exclusion set plus the open/public restriction shared by
// every topic-joined shape.
func baseFilter(p *FeedParams) []query.Fragment {
	return append([]query.Fragment{openAndPublic(p.Now)}, exclusionFilter(p)...)
}

// latestViewJoin left-joins the user's most recent view of each contract
// across all view kinds as cv(contract_id, latest_seen_time).
func latestViewJoin(userID string) query.Fragment {
	return query.Frag(`(
		SELECT contract_id,
			MAX(GREATEST(
				COALESCE(last_page_view_ts, `+epochLiteral+`),
				COALESCE(last_promoted_view_ts, `+epochLiteral+`),
				COALESCE(last_card_view_ts, `+epochLiteral+`)
			)) AS latest_seen_time
		FROM user_contract_views
		WHERE user_id = ?
		GROUP BY contract_id
	) cv ON cv.contract_id = c.id`, userID)
}

// notYetViewed pairs with latestViewJoin.
func notYetViewed() query.Fragment {
	return query.Frag("cv.latest_seen_time IS NULL")
}

func followedCreator(userID string) query.Fragment {
	return query.Frag("c.creator_id IN (SELECT uf.follow_id FROM user_follows uf WHERE uf.user_id = ?)", userID)
}
