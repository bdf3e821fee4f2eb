// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
	}{
		{name: "successful SELECT", operation: "SELECT", table: "contracts"},
		{name: "failed upsert", operation: "UPSERT", table: "user_contract_views", err: errors.New("conflict")},
		{
			name:      "long error is truncated",
			operation: "SELECT",
			table:     "posts",
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)
			if tt.err == nil {
				return
			}
			label := tt.err.Error()
			if len(label) > 50 {
				label = label[:50]
			}
			if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, label)); got < 1 {
				t.Errorf("expected error counter to be incremented, got %v", got)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
}

func TestRecordFeedRequest(t *testing.T) {
	successBefore := testutil.ToFloat64(FeedRequests.WithLabelValues("success"))
	errorBefore := testutil.ToFloat64(FeedRequests.WithLabelValues("error"))

	RecordFeedRequest(10*time.Millisecond, 12, nil)
	RecordFeedRequest(10*time.Millisecond, 0, errors.New("query failed"))

	if got := testutil.ToFloat64(FeedRequests.WithLabelValues("success")); got != successBefore+1 {
		t.Errorf("success = %v, want %v", got, successBefore+1)
	}
	if got := testutil.ToFloat64(FeedRequests.WithLabelValues("error")); got != errorBefore+1 {
		t.Errorf("error = %v, want %v", got, errorBefore+1)
	}
}

func TestRecordFeedShape(t *testing.T) {
	before := testutil.ToFloat64(FeedCandidates.WithLabelValues("conversion"))
	RecordFeedShape("conversion", time.Millisecond, 7)
	if got := testutil.ToFloat64(FeedCandidates.WithLabelValues("conversion")); got != before+7 {
		t.Errorf("candidates = %v, want %v", got, before+7)
	}
}

func TestRecordInterestMetrics(t *testing.T) {
	hits := testutil.ToFloat64(InterestCacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(InterestCacheLookups.WithLabelValues("miss"))
	failures := testutil.ToFloat64(InterestBuilds.WithLabelValues("failure"))

	RecordInterestLookup(true)
	RecordInterestLookup(false)
	RecordInterestBuild(errors.New("boom"))

	if got := testutil.ToFloat64(InterestCacheLookups.WithLabelValues("hit")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(InterestCacheLookups.WithLabelValues("miss")); got != misses+1 {
		t.Errorf("misses = %v, want %v", got, misses+1)
	}
	if got := testutil.ToFloat64(InterestBuilds.WithLabelValues("failure")); got != failures+1 {
		t.Errorf("failures = %v, want %v", got, failures+1)
	}
}

// TestCircuitBreakerMetrics tests circuit breaker metric recording
func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "test-breaker"

	RecordCircuitBreakerTransition(cbName, "closed", "open", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues(cbName)); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open")); got != 1 {
		t.Errorf("transitions = %v, want 1", got)
	}

	RecordCircuitBreakerResult(cbName, "rejected")
	if got := testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues(cbName, "rejected")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
}

func TestRecordEventPublish(t *testing.T) {
	RecordEventPublish("feed.views.recorded.test", nil)
	RecordEventPublish("feed.views.recorded.test", errors.New("nats down"))

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("feed.views.recorded.test", "success")); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("feed.views.recorded.test", "failure")); got != 1 {
		t.Errorf("failure = %v, want 1", got)
	}
}
