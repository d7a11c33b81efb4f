// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/models"
	"github.com/tomtom215/robolog/internal/pipeline"
	"github.com/tomtom215/robolog/internal/validation"
)

// IngestLog admits one robot log event.
//
// The handler never waits for delivery: 200 means the event is queued and
// will be delivered or spooled; 503 means the queue is full and the robot
// should retry later.
func (h *Handler) IngestLog(w http.ResponseWriter, r *http.Request) {
	var event models.LogEvent
	if err := decodeJSONBody(w, r, MaxLogBodyBytes, &event); err != nil {
		switch {
		case isBodyTooLarge(err):
			respondError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Log event exceeds size limit", nil)
		case errors.Is(err, errEmptyBody):
			respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body is empty", nil)
		default:
			respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body is not a valid log event", nil)
		}
		return
	}

	if verr := validation.ValidateLogEvent(&event); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	ctx := logging.ContextWithRobotID(r.Context(), event.RobotID)
	if !h.ingestor.Enqueue(ctx, &event) {
		w.Header().Set("Retry-After", "1")
		respondError(w, r, http.StatusServiceUnavailable, "QUEUE_FULL", pipeline.ErrQueueFull.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, newResponse(r, "accepted", models.IngestResult{Accepted: true}))
}

// RetryFailed replays the failure spool and reports how many events were
// delivered. It blocks until the replay pass completes.
func (h *Handler) RetryFailed(w http.ResponseWriter, r *http.Request) {
	retried, err := h.ingestor.ReplayAll(r.Context())
	if err != nil {
		if errors.Is(err, pipeline.ErrReplayUnavailable) {
			respondError(w, r, http.StatusServiceUnavailable, "REPLAY_UNAVAILABLE", "Spool replay is not configured", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "REPLAY_FAILED", "Failed to replay spooled events", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int("retried", retried).Msg("Spool replay requested")
	respondJSON(w, http.StatusOK, newResponse(r, "success", models.ReplayResult{Retried: retried}))
}
