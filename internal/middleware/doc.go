// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package middleware provides HTTP middleware shared by the ingest API.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the logging
    context so every log line of a request carries request_id and
    correlation_id
  - Prometheus Metrics: request count, latency and in-flight gauge, labelled
    by the chi route pattern rather than the raw path

Both are written as http.HandlerFunc wrappers and adapted to chi's
func(http.Handler) http.Handler in the api package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
*/
package middleware
