// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package delivery pushes log events to a Loki-compatible sink.

Each call to Client.Deliver sends one event, retrying with linear backoff:
after the i-th failed attempt the client sleeps BaseDelay*i before trying
again, for at most MaxRetries attempts. A transport error, a non-2xx
response, an open circuit breaker and a cancelled context all count as a
failed attempt; a cancelled context also ends the sequence immediately.

Payload format (Loki push API):

	{"streams":[{"stream":{"robot":"r-7","level":"INFO","tag":"submission"},
	  "values":[["1717430400000000000","arm raised"]]}]}

Resilience:
  - Per-attempt timeout (Config.Timeout)
  - Optional circuit breaker (sony/gobreaker/v2) that fails attempts fast
    while the sink is down
  - Optional token bucket limiter (golang.org/x/time/rate) shared by all
    workers
*/
package delivery
