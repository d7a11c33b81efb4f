// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package spool

import "errors"

var (
	// ErrEventLost is returned when an event could be written to neither the
	// spool file nor the fallback store.
	ErrEventLost = errors.New("event lost: spool and fallback both failed")

	// ErrFallbackClosed is returned by FallbackSpool methods after Close.
	ErrFallbackClosed = errors.New("fallback spool is closed")
)
