// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package forwarder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/session"
)

// DefaultSubject is the grading service's submission subject.
const DefaultSubject = "course.submission.robot_logs"

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("forwarder is closed")

// Config configures a NATSForwarder.
type Config struct {
	URL     string
	Subject string

	// Timeout bounds a request when the caller's context has no deadline.
	Timeout time.Duration
}

// SubmitRequest is the body sent to the grading service.
type SubmitRequest struct {
	RobotID     string `json:"robotId"`
	SessionID   string `json:"accountLessonId"`
	LogDataJSON string `json:"logDataJson"`
}

// NATSForwarder submits sessions over NATS request/reply.
type NATSForwarder struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewNATSForwarder connects to cfg.URL. The connection keeps reconnecting
// in the background, so a grading service that starts later is picked up.
func NewNATSForwarder(cfg Config) (*NATSForwarder, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("forwarder: NATS URL is required")
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	log := logging.WithComponent("forwarder")
	nc, err := nats.Connect(cfg.URL,
		nats.Name("robolog-forwarder"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrlRedacted()).Msg("Reconnected to NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	log.Info().Str("subject", cfg.Subject).Dur("timeout", cfg.Timeout).Msg("Submission forwarder ready")
	return &NATSForwarder{
		nc:      nc,
		subject: cfg.Subject,
		timeout: cfg.Timeout,
	}, nil
}

// Submit sends one session bundle and waits for the grading service's reply.
func (f *NATSForwarder) Submit(ctx context.Context, robotID, sessionID string, logsJSON []byte) (session.Result, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return session.Result{}, ErrClosed
	}

	body, err := json.Marshal(SubmitRequest{
		RobotID:     robotID,
		SessionID:   sessionID,
		LogDataJSON: string(logsJSON),
	})
	if err != nil {
		return session.Result{}, fmt.Errorf("marshal submit request: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	msg, err := f.nc.RequestWithContext(ctx, f.subject, body)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return session.Result{}, fmt.Errorf("no grading service listening on %s: %w", f.subject, err)
		}
		return session.Result{}, fmt.Errorf("request %s: %w", f.subject, err)
	}

	var res session.Result
	if err := json.Unmarshal(msg.Data, &res); err != nil {
		return session.Result{}, fmt.Errorf("decode grading reply: %w", err)
	}
	return res, nil
}

// IsConnected reports whether the NATS connection is up.
func (f *NATSForwarder) IsConnected() bool {
	return f.nc.IsConnected()
}

// Close drains and closes the connection. Safe to call more than once.
func (f *NATSForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	if err := f.nc.Drain(); err != nil {
		f.nc.Close()
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
