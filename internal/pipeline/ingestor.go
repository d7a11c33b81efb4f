// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/metrics"
	"github.com/tomtom215/robolog/internal/models"
	"github.com/tomtom215/robolog/internal/session"
)

// Aggregator observes admitted events for session bundling.
//
// Satisfied by *session.Aggregator.
type Aggregator interface {
	Observe(ctx context.Context, event *models.LogEvent) session.Outcome
	Len() int
}

// Replayer re-delivers the failure spool.
//
// Satisfied by *replay.Service.
type Replayer interface {
	ReplayAll(ctx context.Context) (int, error)
}

// ErrReplayUnavailable is returned by ReplayAll when no replayer is wired.
var ErrReplayUnavailable = errors.New("spool replay not configured")

// IngestorOption customizes an Ingestor.
type IngestorOption func(*Ingestor)

// WithPool exposes pool state through Stats and Ready.
func WithPool(p *Pool) IngestorOption {
	return func(in *Ingestor) {
		in.pool = p
	}
}

// WithNow replaces the clock used to stamp events without a timestamp.
func WithNow(now func() time.Time) IngestorOption {
	return func(in *Ingestor) {
		in.now = now
	}
}

// Ingestor is the single entry point for producers.
type Ingestor struct {
	dispatcher *Dispatcher
	aggregator Aggregator
	replayer   Replayer
	pool       *Pool
	now        func() time.Time
}

// NewIngestor wires the admission queue, the session aggregator and the
// replay service. aggregator and replayer may be nil.
func NewIngestor(d *Dispatcher, aggregator Aggregator, replayer Replayer, opts ...IngestorOption) *Ingestor {
	in := &Ingestor{
		dispatcher: d,
		aggregator: aggregator,
		replayer:   replayer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Enqueue admits event without blocking on delivery. It returns false when
// the queue is full or shutting down; a rejected event is not aggregated.
// An admitted event is then offered to the session aggregator, whose outcome
// never changes the result.
func (in *Ingestor) Enqueue(ctx context.Context, event *models.LogEvent) bool {
	ev := *event
	ev.StampIfMissing(in.now())

	if !in.dispatcher.Enqueue(&ev) {
		metrics.RecordAdmission(false)
		logging.Ctx(ctx).Debug().
			Str("robot_id", ev.RobotID).
			Int("queue_depth", in.dispatcher.Len()).
			Msg("Event rejected, queue full")
		return false
	}
	metrics.RecordAdmission(true)

	if in.aggregator != nil {
		// Workers only read the queued event, so sharing it is safe.
		in.aggregator.Observe(ctx, &ev)
	}
	return true
}

// ReplayAll replays the failure spool and returns the delivered count.
func (in *Ingestor) ReplayAll(ctx context.Context) (int, error) {
	if in.replayer == nil {
		return 0, ErrReplayUnavailable
	}
	return in.replayer.ReplayAll(ctx)
}

// Ready reports whether events are being consumed.
func (in *Ingestor) Ready() bool {
	if in.dispatcher.Closed() {
		return false
	}
	return in.pool == nil || in.pool.Running()
}

// Stats returns a snapshot for the stats endpoint.
func (in *Ingestor) Stats() models.PipelineStats {
	st := models.PipelineStats{
		QueueDepth:    in.dispatcher.Len(),
		QueueCapacity: in.dispatcher.Cap(),
	}
	if in.pool != nil {
		st.Workers = in.pool.Workers()
		st.WorkersRunning = in.pool.Running()
		st.WorkersBusy = in.pool.Active()
	}
	if in.aggregator != nil {
		st.OpenSessions = in.aggregator.Len()
	}
	return st
}
