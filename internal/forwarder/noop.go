// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package forwarder

import (
	"context"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/session"
)

// NoopForwarder drops bundles when no grading service is configured.
type NoopForwarder struct{}

// Submit logs the dropped bundle and reports failure.
func (NoopForwarder) Submit(ctx context.Context, robotID, sessionID string, logsJSON []byte) (session.Result, error) {
	logging.Ctx(ctx).Warn().
		Str("robot_id", robotID).
		Str("session_id", sessionID).
		Int("bytes", len(logsJSON)).
		Msg("Submission forwarding disabled; bundle dropped")
	return session.Result{Success: false, Message: "forwarding disabled"}, nil
}

// IsConnected always reports true; there is nothing to connect to.
func (NoopForwarder) IsConnected() bool {
	return true
}
