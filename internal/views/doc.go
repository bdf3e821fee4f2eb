// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package views ingests contract view events without blocking the caller.

Record validates an event, appends it to an in-memory FIFO and returns a
continuation. The HTTP handler acknowledges the client first and then hands
the continuation to a background task runner. Running a continuation starts a
drain unless one is already in progress; the drain writes events one at a time
until it observes an empty queue.

Write semantics per (user, contract, kind):

  - the first view sets the timestamp and a counter of 1;
  - later views inside the count window (one minute by default) are ignored;
  - later views outside the window refresh the timestamp and increment;
  - anonymous views are stored under the empty user id and always increment.

A failed write is logged, counted in views_dropped_total and dropped. The
drain stops at the failure and the next continuation resumes with the events
still queued. The queue lives in memory only, so pending events are lost on
restart.

Persisted views are announced on the event bus when one is configured.
*/
package views
