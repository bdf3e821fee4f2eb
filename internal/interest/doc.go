// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package interest maintains per-user topic interest profiles.

A Profile maps a topic (group) id to a non-negative weight. Profiles live in a
Store and are written only by the Builder:

  - The baseline step replaces the whole profile with the average conversion
    score of each topic behind the user's recent engagement. A topic that
    drops out of the user's top scores is gone after the next build.
  - The follow step adds one unit per group membership. The builder keeps
    these bonuses in a per-user ledger that grows by one unit per membership
    on every build, so long-lived memberships weigh more over time. Groups
    the user no longer follows leave the ledger.

The stored profile is baseline plus ledger. Builder.Rebuild resets the ledger
and recomputes the profile from scratch. The ledger lives in process memory;
after a restart it starts over from the next build.

# Stores

Three Store implementations are selected by the interest.store setting:

  - memory: unbounded map, lives for the process lifetime
  - lru: bounded, least recently used users are evicted and rebuilt on demand
  - badger: persisted in BadgerDB so a restart keeps the warm cache

# Builds

Builder.Ensure returns a cached profile or builds it. Concurrent Ensure calls
for the same user share a single build, which runs detached from the caller
that started it and is bounded by interest.build_timeout. Builder.Build processes users in
fixed-size batches; on a cold store it first adds every recently active user.
A failed baseline fetch for one user is reported without aborting the rest of
its batch.
*/
package interest
