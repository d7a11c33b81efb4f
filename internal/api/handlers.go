// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package api

import (
	"context"
	"time"

	"github.com/tomtom215/robolog/internal/models"
)

// Ingestor is the pipeline surface the handlers need.
//
// Satisfied by *pipeline.Ingestor.
type Ingestor interface {
	Enqueue(ctx context.Context, event *models.LogEvent) bool
	ReplayAll(ctx context.Context) (int, error)
	Ready() bool
	Stats() models.PipelineStats
}

// ConnectionChecker reports the state of an outbound connection.
//
// Satisfied by *forwarder.NATSForwarder and forwarder.NoopForwarder.
type ConnectionChecker interface {
	IsConnected() bool
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_logs.go: ingestion and spool replay
//   - handlers_health.go: probes and stats
type Handler struct {
	ingestor  Ingestor
	forwarder ConnectionChecker
	startTime time.Time
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithForwarderStatus reports forwarder connectivity on /health/ready.
func WithForwarderStatus(c ConnectionChecker) HandlerOption {
	return func(h *Handler) {
		h.forwarder = c
	}
}

// NewHandler creates a handler bound to the ingestion pipeline.
func NewHandler(ingestor Ingestor, opts ...HandlerOption) *Handler {
	h := &Handler{
		ingestor:  ingestor,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
