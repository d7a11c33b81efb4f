// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

// Package main is the entry point for the Robolog server.
//
// Robolog accepts structured log events from robots over HTTP, delivers each
// one to a Loki-compatible sink in the background, spools events it cannot
// deliver to a JSON-lines file for later replay, and bundles submission
// sessions per robot for the grading service.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Failure spool: JSON-lines file plus optional BadgerDB fallback
//  4. Delivery client: HTTP push with linear backoff, rate limit, circuit breaker
//  5. Submission forwarder: NATS request/reply, or a no-op when disabled
//  6. Pipeline: dispatcher queue, worker pool, session aggregator, replay service
//  7. HTTP API: chi router on SERVER_HOST:HTTP_PORT
//  8. Supervisor tree: suture v4 running the pool, replay loop and HTTP server
//
// # Configuration
//
// Common environment variables:
//
//	SINK_URL               Loki push endpoint (alias LOKI_URL)
//	QUEUE_CAPACITY         admission queue size (default 10000)
//	WORKER_COUNT           delivery workers (default 4)
//	MAX_RETRIES            attempts per event (default 3)
//	BASE_DELAY_MS          linear backoff base (default 500)
//	FAILURE_SPOOL_PATH     spool file (default failed-logs.jsonl)
//	SPOOL_FALLBACK_PATH    BadgerDB directory for failed spool appends
//	SPOOL_REPLAY_INTERVAL  periodic replay, e.g. 5m (default: on demand only)
//	FORWARDER_ENABLED      submit session bundles over NATS
//	FORWARDER_NATS_URL     NATS server URL
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree: the HTTP server stops
// accepting requests, the worker pool spools whatever is still queued, and the
// forwarder connection and fallback store are closed.
package main
