// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package models defines the data structures shared across Feedrank.

Content:

  - Contract: a rankable content item with its precomputed conversion,
    importance and freshness scores
  - Comment, Bet, Repost: social content attached to repost candidates
  - Ad, AdContract: sponsored placements and their surfaced form
  - PrivateUser: per-user block lists applied to every candidate query

Feed assembly:

  - Shape: the six candidate retrieval query shapes
  - Candidate: a contract plus the interest weight and attachments that
    surfaced it
  - Reason: the attribution credited for an organic feed item
  - FeedRequest, FeedResult: the feed fetch input and output

View tracking:

  - ViewKind, ViewEvent: view ingestion input
  - ViewCounter: the persisted per (user, contract) counter row
*/
package models
