// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package replay

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingReplayer struct {
	calls atomic.Int32
}

func (c *countingReplayer) Replay(context.Context) (Result, error) {
	c.calls.Add(1)
	return Result{}, nil
}

func TestLoopRunsOnInterval(t *testing.T) {
	t.Parallel()

	r := &countingReplayer{}
	l := NewLoop(r, 10*time.Millisecond)

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !l.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	l.Stop()

	if r.calls.Load() < 3 {
		t.Errorf("replays = %d, want at least 3", r.calls.Load())
	}
	if l.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}

	after := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if r.calls.Load() != after {
		t.Error("loop kept replaying after Stop")
	}
}

func TestLoopDisabled(t *testing.T) {
	t.Parallel()

	r := &countingReplayer{}
	l := NewLoop(r, 0)
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if l.IsRunning() {
		t.Error("IsRunning() = true with interval 0")
	}
	l.Stop()
}

func TestLoopStartIdempotentAndRestartable(t *testing.T) {
	t.Parallel()

	l := NewLoop(&countingReplayer{}, time.Hour)
	ctx := context.Background()

	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := l.Start(ctx); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	l.Stop()
	l.Stop()

	if err := l.Start(ctx); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	if !l.IsRunning() {
		t.Error("IsRunning() = false after restart")
	}
	l.Stop()
}

func TestLoopStopsWithContext(t *testing.T) {
	t.Parallel()

	r := &countingReplayer{}
	l := NewLoop(r, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	time.Sleep(20 * time.Millisecond)
	after := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if r.calls.Load() != after {
		t.Error("loop kept replaying after context cancellation")
	}
	l.Stop()
}
