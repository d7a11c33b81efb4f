// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package spool persists events that could not be delivered to the sink.

The primary store is an append-only JSON-lines file: one LogEvent object per
line, newline-terminated. Appends are serialized by a mutex and each append
is fsynced. Rewrites (after a replay) go through a temp file, fsync and
rename, so a crash leaves either the old or the new file, never a mix.

If the file cannot be written (disk full, permissions) the event is handed
to an optional BadgerDB FallbackSpool. Only when both stores fail does
Append return ErrEventLost.

File format example:

	{"robotId":"r-7","level":"INFO","tag":"submission","message":"arm up","timestamp":1717430400000}
	{"robotId":"r-2","level":"WARN","message":"low battery","timestamp":1717430400123}
*/
package spool
