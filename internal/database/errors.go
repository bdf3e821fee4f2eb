// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/feedrank/internal/logging"
)

var (
	// ErrBreakerOpen is returned while the store circuit breaker rejects calls.
	ErrBreakerOpen = errors.New("database circuit breaker open")

	// ErrUnknownShape is returned for a shape the store cannot retrieve.
	ErrUnknownShape = errors.New("unknown feed shape")

	// ErrInvalidViewKind is returned when a view event names no known kind.
	ErrInvalidViewKind = errors.New("invalid view kind")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path, ignoring the close error.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
