// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package metrics provides Prometheus metrics for the ingestion pipeline.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8085/metrics

# Available Metrics

Ingestion:
  - robolog_events_received_total: events offered for ingestion (counter)
  - robolog_events_admitted_total: admission decisions (counter)
    Labels: result (accepted, rejected)
  - robolog_queue_depth: events waiting in the queue (gauge)
  - robolog_workers_active: running delivery workers (gauge)

Delivery:
  - robolog_delivery_attempts_total: sink pushes (counter)
    Labels: outcome (success, http_error, transport_error, breaker_open, rate_limited)
  - robolog_deliveries_total: per-event results (counter)
    Labels: result (delivered, exhausted, aborted)
  - robolog_delivery_duration_seconds: time to final result (histogram)
  - robolog_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)

Spool:
  - robolog_spool_appends_total: spooled events (counter)
    Labels: store (file, fallback)
  - robolog_events_lost_total: events neither delivered nor spooled (counter)
  - robolog_replay_runs_total, robolog_replay_delivered_total
  - robolog_spool_pending_lines, robolog_spool_poison_lines (gauges)

Sessions:
  - robolog_sessions_open (gauge)
  - robolog_session_forwards_total: Labels: result (success, rejected, error, empty)
  - robolog_session_forward_duration_seconds (histogram)

API:
  - robolog_api_requests_total, robolog_api_request_duration_seconds,
    robolog_api_active_requests

# Alerting

robolog_events_lost_total should stay at zero. A non-zero
robolog_spool_poison_lines means the spool holds lines that will never
replay and need manual inspection.
*/
package metrics
