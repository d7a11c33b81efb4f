// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package replay

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/robolog/internal/logging"
)

// Replayer is the part of Service the loop drives.
type Replayer interface {
	Replay(ctx context.Context) (Result, error)
}

// Loop periodically replays the spool in the background.
type Loop struct {
	replayer Replayer
	interval time.Duration

	// State - all protected by mu
	mu       sync.Mutex
	cancel   context.CancelFunc
	running  bool
	stopping bool          // true while Stop() is waiting for goroutine
	stopDone chan struct{} // closed when the goroutine exits
}

// NewLoop creates a loop that replays every interval. An interval <= 0
// makes Start a no-op, leaving replays on demand only.
func NewLoop(replayer Replayer, interval time.Duration) *Loop {
	return &Loop{
		replayer: replayer,
		interval: interval,
	}
}

// Start begins the background loop. It runs until Stop is called or ctx is
// canceled.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()

	// Wait for any in-progress Stop() to complete
	for l.stopping {
		stopDone := l.stopDone
		l.mu.Unlock()
		<-stopDone
		l.mu.Lock()
	}

	if l.running {
		l.mu.Unlock()
		return nil
	}
	if l.interval <= 0 {
		l.mu.Unlock()
		logging.Info().Msg("Spool replay loop disabled; replays run on demand")
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.running = true
	l.stopDone = make(chan struct{})
	done := l.stopDone
	l.mu.Unlock()

	go l.run(loopCtx, done)

	logging.Info().Dur("interval", l.interval).Msg("Spool replay loop started")
	return nil
}

// Stop stops the loop and waits for an in-flight replay to return.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running || l.stopping {
		l.mu.Unlock()
		return
	}

	l.cancel()
	l.running = false
	l.stopping = true
	stopDone := l.stopDone
	l.mu.Unlock()

	<-stopDone

	l.mu.Lock()
	l.stopping = false
	l.mu.Unlock()

	logging.Info().Msg("Spool replay loop stopped")
}

// IsRunning reports whether the loop is active.
func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// run is the loop goroutine. done is closed on exit.
func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are logged and counted by the replayer.
			_, _ = l.replayer.Replay(ctx)
		}
	}
}
