// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// loggerAdapter routes Watermill logs through zerolog.
type loggerAdapter struct {
	logger zerolog.Logger
	fields watermill.LogFields
}

// NewLoggerAdapter wraps a zerolog logger as a watermill.LoggerAdapter.
func NewLoggerAdapter(logger zerolog.Logger) watermill.LoggerAdapter {
	return &loggerAdapter{logger: logger}
}

func (a *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.with(a.logger.Error().Err(err), fields).Msg(msg)
}

func (a *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.with(a.logger.Info(), fields).Msg(msg)
}

func (a *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.with(a.logger.Debug(), fields).Msg(msg)
}

func (a *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.with(a.logger.Trace(), fields).Msg(msg)
}

func (a *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	merged := make(watermill.LogFields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &loggerAdapter{logger: a.logger, fields: merged}
}

func (a *loggerAdapter) with(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range a.fields {
		e = e.Interface(k, v)
	}
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
