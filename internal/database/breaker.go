// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
)

// newBreaker returns nil when failures is zero, which disables the breaker.
func newBreaker(name string, failures uint32, timeout time.Duration) *gobreaker.CircuitBreaker[interface{}] {
	if failures == 0 {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Cancellation and empty results say nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, sql.ErrNoRows)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// guard runs fn through the circuit breaker, if one is configured, and
// records the query metric under operation/table.
func (db *DB) guard(operation, table string, fn func() error) error {
	start := time.Now()

	var err error
	if db.breaker == nil {
		err = fn()
	} else {
		_, err = db.breaker.Execute(func() (interface{}, error) {
			return nil, fn()
		})
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordCircuitBreakerResult(db.breaker.Name(), "rejected")
			return ErrBreakerOpen
		case err != nil:
			metrics.RecordCircuitBreakerResult(db.breaker.Name(), "failure")
		default:
			metrics.RecordCircuitBreakerResult(db.breaker.Name(), "success")
		}
	}

	metrics.RecordDBQuery(operation, table, time.Since(start), err)
	return err
}

// BreakerState reports the store circuit breaker state for health checks.
func (db *DB) BreakerState() string {
	if db.breaker == nil {
		return "disabled"
	}
	return db.breaker.State().String()
}
