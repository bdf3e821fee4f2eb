// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package logging provides the zerolog-based structured logger used by every
// Feedrank component.
//
// A single global logger is configured once at startup through Init and is
// read through the package helpers (Info, Warn, Error, ...). Request scoped
// logging goes through Ctx, which attaches the request and correlation IDs
// placed in the context by the HTTP middleware.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("user_id", userID).Msg("Profile built")
//	logging.Ctx(ctx).Error().Err(err).Msg("Feed query failed")
//
// Component loggers carry a "component" field:
//
//	logger := logging.WithComponent("views")
//	logger.Info().Int("depth", n).Msg("Drain started")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json or console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Supervisor Integration
//
// The suture supervisor tree logs through log/slog. NewSlogLogger returns a
// *slog.Logger whose records are written by the global zerolog logger, so
// supervisor events share the same format and level as the rest of the
// service.
package logging
