// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package session

import (
	"context"
	"errors"
)

// ErrForwardFailed marks a bundle the grading service did not accept.
var ErrForwardFailed = errors.New("submission forward failed")

// Result is the grading service's answer to a submission.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Forwarder submits a completed session bundle. A transport error is
// equivalent to Result{Success: false}.
type Forwarder interface {
	Submit(ctx context.Context, robotID, sessionID string, logsJSON []byte) (Result, error)
}

// ForwarderFunc adapts a function to the Forwarder interface.
type ForwarderFunc func(ctx context.Context, robotID, sessionID string, logsJSON []byte) (Result, error)

// Submit calls f.
func (f ForwarderFunc) Submit(ctx context.Context, robotID, sessionID string, logsJSON []byte) (Result, error) {
	return f(ctx, robotID, sessionID, logsJSON)
}
