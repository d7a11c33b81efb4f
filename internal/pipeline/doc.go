// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package pipeline admits log events and drives them to the sink.

Flow:

	Ingestor.Enqueue -> Dispatcher (bounded FIFO) -> Pool workers -> delivery.Client
	                 \-> session.Aggregator                       \-> spool (on failure)

Admission never blocks: when the dispatcher holds its full capacity the
event is rejected and the caller sees false. An accepted event is either
delivered or written to the spool; the pool spools events whose delivery
was exhausted or aborted by shutdown, and on shutdown it spools everything
still queued.

Session aggregation runs synchronously inside Enqueue, only for admitted
events, and its result never changes the admission answer.
*/
package pipeline
