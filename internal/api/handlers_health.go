// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newResponse(r, "success", map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}))
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only while workers are consuming the admission queue.
// Forwarder connectivity is reported but does not gate readiness: session
// forwarding is best-effort.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.ingestor.Ready()

	data := map[string]interface{}{
		"ready_to_serve": ready,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if h.forwarder != nil {
		data["forwarder_connected"] = h.forwarder.IsConnected()
	}

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, newResponse(r, status, data))
}

// Stats returns a snapshot of queue and worker state.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newResponse(r, "success", h.ingestor.Stats()))
}
