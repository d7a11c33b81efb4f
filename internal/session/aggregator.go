// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/metrics"
	"github.com/tomtom215/robolog/internal/models"
)

// Outcome describes what Observe did with an event.
type Outcome int

const (
	// OutcomeIgnored: the event does not take part in sessions.
	OutcomeIgnored Outcome = iota
	// OutcomeBuffered: the event was appended to the robot's session.
	OutcomeBuffered
	// OutcomeEmpty: a session end arrived with nothing buffered.
	OutcomeEmpty
	// OutcomeForwarded: the grading service accepted the bundle.
	OutcomeForwarded
	// OutcomeRejected: the grading service answered success=false.
	OutcomeRejected
	// OutcomeFailed: the bundle could not be encoded or sent.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeBuffered:
		return "buffered"
	case OutcomeEmpty:
		return "empty"
	case OutcomeForwarded:
		return "forwarded"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// DefaultBufferTags are buffered when Config.BufferTags is empty.
var DefaultBufferTags = []string{models.TagSubmission}

// DefaultForwardTimeout bounds a forward when Config.ForwardTimeout is zero.
const DefaultForwardTimeout = 10 * time.Second

// Config configures an Aggregator.
type Config struct {
	// BufferTags are the tags (case-insensitive) whose events are buffered.
	BufferTags []string

	// ForwardTimeout bounds one Forwarder.Submit call.
	ForwardTimeout time.Duration
}

type buffer struct {
	mu     sync.Mutex
	events []models.LogEvent
	closed bool
}

// Aggregator holds one open session per robot.
type Aggregator struct {
	cfg Config
	fwd Forwarder

	mu       sync.Mutex
	sessions map[string]*buffer
}

// NewAggregator creates an Aggregator that hands finished sessions to fwd.
func NewAggregator(cfg Config, fwd Forwarder) *Aggregator {
	if len(cfg.BufferTags) == 0 {
		cfg.BufferTags = DefaultBufferTags
	}
	if cfg.ForwardTimeout <= 0 {
		cfg.ForwardTimeout = DefaultForwardTimeout
	}
	return &Aggregator{
		cfg:      cfg,
		fwd:      fwd,
		sessions: make(map[string]*buffer),
	}
}

// Observe routes one accepted event. It blocks while a finished session is
// forwarded.
func (a *Aggregator) Observe(ctx context.Context, event *models.LogEvent) Outcome {
	switch {
	case event.IsSessionEnd():
		return a.flush(ctx, event)
	case event.HasTag(a.cfg.BufferTags):
		a.append(event)
		return OutcomeBuffered
	default:
		return OutcomeIgnored
	}
}

func (a *Aggregator) append(event *models.LogEvent) {
	for {
		a.mu.Lock()
		b, ok := a.sessions[event.RobotID]
		if !ok {
			b = &buffer{}
			a.sessions[event.RobotID] = b
			metrics.SessionsOpen.Set(float64(len(a.sessions)))
		}
		a.mu.Unlock()

		b.mu.Lock()
		if b.closed {
			// Flushed between lookup and lock; start over with a new session.
			b.mu.Unlock()
			continue
		}
		b.events = append(b.events, *event)
		b.mu.Unlock()

		metrics.SessionEventsBuffered.Inc()
		return
	}
}

// take detaches the robot's session and returns its events.
func (a *Aggregator) take(robotID string) []models.LogEvent {
	a.mu.Lock()
	b, ok := a.sessions[robotID]
	if ok {
		delete(a.sessions, robotID)
		metrics.SessionsOpen.Set(float64(len(a.sessions)))
	}
	a.mu.Unlock()
	if !ok {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	events := b.events
	b.events = nil
	return events
}

func (a *Aggregator) flush(ctx context.Context, end *models.LogEvent) Outcome {
	log := logging.Ctx(ctx).With().
		Str("robot_id", end.RobotID).
		Str("session_id", end.SessionID).
		Logger()

	events := a.take(end.RobotID)
	if len(events) == 0 {
		metrics.RecordSessionForward("empty", 0)
		log.Debug().Msg("Session end with nothing buffered")
		return OutcomeEmpty
	}

	start := time.Now()
	data, err := json.Marshal(events)
	if err != nil {
		metrics.RecordSessionForward("error", time.Since(start))
		log.Error().Err(err).Int("events", len(events)).Msg("Failed to encode submission bundle")
		return OutcomeFailed
	}

	// The bundle is already detached, so the forward must not be cut short by
	// the caller going away.
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ForwardTimeout)
	defer cancel()

	res, err := a.fwd.Submit(fctx, end.RobotID, end.SessionID, data)
	elapsed := time.Since(start)
	switch {
	case err != nil:
		metrics.RecordSessionForward("error", elapsed)
		log.Error().Err(fmt.Errorf("%w: %w", ErrForwardFailed, err)).Int("events", len(events)).Msg("Submission forward failed")
		return OutcomeFailed
	case !res.Success:
		metrics.RecordSessionForward("rejected", elapsed)
		log.Warn().Str("reply", res.Message).Int("events", len(events)).Msg("Submission rejected by grading service")
		return OutcomeRejected
	default:
		metrics.RecordSessionForward("success", elapsed)
		log.Info().Str("reply", res.Message).Int("events", len(events)).Dur("duration", elapsed).Msg("Submission forwarded")
		return OutcomeForwarded
	}
}

// Len returns the number of robots with an open session.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

// Buffered returns a copy of the robot's open session, or nil.
func (a *Aggregator) Buffered(robotID string) []models.LogEvent {
	a.mu.Lock()
	b, ok := a.sessions[robotID]
	a.mu.Unlock()
	if !ok {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || len(b.events) == 0 {
		return nil
	}
	return append([]models.LogEvent(nil), b.events...)
}
