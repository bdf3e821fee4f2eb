// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package query provides SQL building blocks for the database package.
//
// Queries are assembled from Fragments: a piece of SQL text together with the
// arguments bound to its placeholders. Fragments are composed in textual order,
// so the argument slice produced by Build always lines up with the "?"
// placeholders of the final statement.
//
// # WhereBuilder
//
// WhereBuilder accumulates predicates joined with AND:
//
//	wb := query.NewWhereBuilder()
//	wb.Add(query.Frag("c.close_time > ?", now))
//	wb.AddNotIn("c.id", ignoreIDs) // skipped when ignoreIDs is empty
//	where, args := wb.Build()
//	// "c.close_time > ? AND c.id NOT IN (?, ?)"
//
// # SelectBuilder
//
// SelectBuilder composes a full SELECT statement from a FROM fragment, joins,
// a WhereBuilder, an ORDER BY and an optional LIMIT/OFFSET:
//
//	sb := query.NewSelect("c.id", "c.question").
//	    From(query.Frag("contracts c")).
//	    LeftJoin(query.Frag("(SELECT ...) cv ON cv.contract_id = c.id")).
//	    Where(query.Frag("cv.contract_id IS NULL")).
//	    OrderBy("c.conversion_score DESC").
//	    Limit(20, 0)
//	sql, args := sb.Build()
//
// Clause text must never contain user input. All values go through args.
package query
