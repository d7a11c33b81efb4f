// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

// Package logging provides the zerolog-based structured logger used by every
// Robolog component.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from main via Init
//   - JSON output for production and console output for development
//   - Context helpers that carry request, correlation and robot IDs
//   - An slog.Handler adapter so sutureslog can report supervisor events
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("robot_id", id).Msg("Event accepted")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Sink push failed")
//
// # Configuration
//
// Environment variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Always terminate chains with Msg or Send; an unterminated event is never
// written.
package logging
