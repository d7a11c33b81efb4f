// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion Metrics
	EventsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "robolog_events_received_total",
			Help: "Total number of log events offered for ingestion",
		},
	)

	EventsAdmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_events_admitted_total",
			Help: "Admission decisions by result",
		},
		[]string{"result"}, // "accepted", "rejected"
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "robolog_queue_depth",
			Help: "Events currently waiting in the admission queue",
		},
	)

	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "robolog_workers_active",
			Help: "Delivery workers currently running",
		},
	)

	// Delivery Metrics
	DeliveryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_delivery_attempts_total",
			Help: "Sink push attempts by outcome",
		},
		[]string{"outcome"}, // "success", "http_error", "transport_error", "breaker_open"
	)

	DeliveryResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_deliveries_total",
			Help: "Per-event delivery results after all retries",
		},
		[]string{"result"}, // "delivered", "exhausted", "aborted"
	)

	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "robolog_delivery_duration_seconds",
			Help:    "Time from first attempt to final result for one event",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "robolog_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Spool Metrics
	SpoolAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_spool_appends_total",
			Help: "Events written to the failure spool",
		},
		[]string{"store"}, // "file", "fallback"
	)

	EventsLost = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "robolog_events_lost_total",
			Help: "Events that could be neither delivered nor spooled",
		},
	)

	ReplayRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_replay_runs_total",
			Help: "Spool replay runs by status",
		},
		[]string{"status"}, // "success", "error"
	)

	ReplayDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "robolog_replay_delivered_total",
			Help: "Spooled events delivered by replay",
		},
	)

	SpoolPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "robolog_spool_pending_lines",
			Help: "Lines left in the spool after the last replay",
		},
	)

	SpoolPoisonLines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "robolog_spool_poison_lines",
			Help: "Unparseable spool lines seen by the last replay",
		},
	)

	// Session Metrics
	SessionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "robolog_sessions_open",
			Help: "Robots with a buffered submission session",
		},
	)

	SessionEventsBuffered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "robolog_session_events_buffered_total",
			Help: "Events appended to submission sessions",
		},
	)

	SessionForwards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_session_forwards_total",
			Help: "Submission bundles forwarded to the grading service by result",
		},
		[]string{"result"}, // "success", "rejected", "error", "empty"
	)

	SessionForwardDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "robolog_session_forward_duration_seconds",
			Help:    "Duration of grading service calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robolog_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "robolog_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "robolog_api_active_requests",
			Help: "Number of active API requests",
		},
	)
)

// RecordAdmission records one admission decision.
func RecordAdmission(accepted bool) {
	EventsReceived.Inc()
	if accepted {
		EventsAdmitted.WithLabelValues("accepted").Inc()
	} else {
		EventsAdmitted.WithLabelValues("rejected").Inc()
	}
}

// RecordDeliveryAttempt records the outcome of a single sink push.
func RecordDeliveryAttempt(outcome string) {
	DeliveryAttempts.WithLabelValues(outcome).Inc()
}

// RecordDelivery records the final result for one event.
func RecordDelivery(result string, duration time.Duration) {
	DeliveryResults.WithLabelValues(result).Inc()
	DeliveryDuration.Observe(duration.Seconds())
}

// RecordCircuitBreakerTransition records a breaker state change. States are
// the gobreaker names: "closed", "half-open", "open".
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	switch to {
	case "closed":
		CircuitBreakerState.WithLabelValues(name).Set(0)
	case "half-open":
		CircuitBreakerState.WithLabelValues(name).Set(1)
	case "open":
		CircuitBreakerState.WithLabelValues(name).Set(2)
	}
}

// RecordSpoolAppend records an event written to the file spool or its fallback.
func RecordSpoolAppend(store string) {
	SpoolAppends.WithLabelValues(store).Inc()
}

// RecordEventLost records an event that neither store accepted.
func RecordEventLost() {
	EventsLost.Inc()
}

// RecordReplay records a finished replay run.
func RecordReplay(delivered, pending, poison int, err error) {
	if err != nil {
		ReplayRuns.WithLabelValues("error").Inc()
		return
	}
	ReplayRuns.WithLabelValues("success").Inc()
	ReplayDelivered.Add(float64(delivered))
	SpoolPending.Set(float64(pending))
	SpoolPoisonLines.Set(float64(poison))
}

// RecordSessionForward records one flush of a submission session.
func RecordSessionForward(result string, duration time.Duration) {
	SessionForwards.WithLabelValues(result).Inc()
	if result != "empty" {
		SessionForwardDuration.Observe(duration.Seconds())
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
