// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package pipeline

import "errors"

var (
	// ErrQueueFull is reported when admission is rejected.
	ErrQueueFull = errors.New("queue full, log rejected")

	// ErrDispatcherClosed is reported when admission is attempted during
	// shutdown.
	ErrDispatcherClosed = errors.New("dispatcher closed")

	// ErrInvalidCapacity is returned by NewDispatcher for capacity < 1.
	ErrInvalidCapacity = errors.New("queue capacity must be at least 1")

	// ErrInvalidWorkers is returned by NewPool for fewer than one worker.
	ErrInvalidWorkers = errors.New("worker count must be at least 1")
)
