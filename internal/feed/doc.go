// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package feed assembles a personalized feed from the candidate retrieval shapes.

A feed request runs in three phases:

 1. The user's interest profile is ensured (built on first use) and the
    private-user block lists are loaded, concurrently.
 2. All six retrieval shapes run concurrently. The first failing shape cancels
    the others and fails the request.
 3. The organic shapes are merged by composite score, deduplicated by contract
    id and attributed a reason. Sponsored rows that are not already organic
    become ads, and repost rows contribute their comments, bets and reposts.

# Usage

	engine := feed.NewEngine(db, builder, feed.ConfigFrom(&cfg.Feed))
	result, err := engine.GetFeed(ctx, models.FeedRequest{
	    UserID: "u1",
	    Limit:  20,
	})

# Ranking

The composite score of a candidate is

	interest * conversion * importance * freshness

where interest is the user's profile weight for the topic that surfaced it
(always 1 for reposts). Items are sorted with a stable sort so that equal
scores keep retrieval order, which is conversion, importance, freshness,
followed, then reposts.

Pagination is applied per shape inside the store. The merged list is not
re-paginated, so a page may hold fewer items than the requested limit once
duplicates are removed.
*/
package feed
