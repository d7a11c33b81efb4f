// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package replay re-delivers events held in the failure spool.

Service.ReplayAll reads every spool line, delivers parseable events directly
through the delivery client (bypassing the admission queue) and rewrites the
spool with whatever is left. Lines that do not parse are kept verbatim and
counted as poison; they are never discarded. Events held by the BadgerDB
fallback store are drained in the same run.

Replays are serialized: a second ReplayAll waits for the first to finish.
Events appended to the spool while a replay is running are preserved.

Loop runs ReplayAll on a fixed interval. It follows the Start/Stop lifecycle
and is supervised through services.ReplayLoopService.
*/
package replay
