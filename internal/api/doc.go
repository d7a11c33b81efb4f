// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package api exposes the ingestion pipeline over HTTP using the Chi router.

Endpoints:

	POST /logs               admit one LogEvent (200 accepted, 503 queue full)
	POST /logs/retry-failed  replay the failure spool synchronously
	GET  /health/live        liveness probe
	GET  /health/ready       readiness probe (workers consuming the queue)
	GET  /stats              queue depth, capacity, workers, open sessions
	GET  /metrics            Prometheus exposition

Every JSON response uses the models.APIResponse envelope:

	{
	  "status": "accepted",
	  "data": {"accepted": true},
	  "metadata": {"timestamp": "...", "request_id": "..."}
	}

Middleware stack (outermost first): request ID with logging context,
RealIP, Recoverer, CORS, per-IP rate limiting (go-chi/httprate), security
headers and Prometheus request metrics. /metrics sits outside the rate
limiter so scrapes are never throttled.

The handlers depend on the Ingestor interface only; *pipeline.Ingestor
satisfies it in production and tests substitute a fake.
*/
package api
