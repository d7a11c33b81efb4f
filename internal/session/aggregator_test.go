// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/robolog/internal/models"
)

type submission struct {
	robotID   string
	sessionID string
	events    []models.LogEvent
}

// recordingForwarder stores every submission and answers with result/err.
type recordingForwarder struct {
	mu     sync.Mutex
	calls  []submission
	result Result
	err    error
}

func (r *recordingForwarder) Submit(_ context.Context, robotID, sessionID string, logsJSON []byte) (Result, error) {
	var events []models.LogEvent
	if err := json.Unmarshal(logsJSON, &events); err != nil {
		return Result{}, fmt.Errorf("bundle is not a JSON array: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, submission{robotID: robotID, sessionID: sessionID, events: events})
	return r.result, r.err
}

func (r *recordingForwarder) Calls() []submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]submission(nil), r.calls...)
}

func ev(robot, tag, msg string) *models.LogEvent {
	return &models.LogEvent{RobotID: robot, Level: "INFO", Tag: tag, Message: msg}
}

func end(robot, session string) *models.LogEvent {
	return &models.LogEvent{RobotID: robot, Tag: "submission_end", SessionID: session}
}

func TestObserveBundlesSession(t *testing.T) {
	t.Parallel()

	fwd := &recordingForwarder{result: Result{Success: true, Message: "graded"}}
	agg := NewAggregator(Config{}, fwd)
	ctx := context.Background()

	if got := agg.Observe(ctx, ev("r1", "submission", "a")); got != OutcomeBuffered {
		t.Errorf("Observe(a) = %v, want buffered", got)
	}
	if got := agg.Observe(ctx, ev("r1", "submission", "b")); got != OutcomeBuffered {
		t.Errorf("Observe(b) = %v, want buffered", got)
	}
	if got := agg.Observe(ctx, end("r1", "S")); got != OutcomeForwarded {
		t.Errorf("Observe(end) = %v, want forwarded", got)
	}

	calls := fwd.Calls()
	if len(calls) != 1 {
		t.Fatalf("forward calls = %d, want 1", len(calls))
	}
	c := calls[0]
	if c.robotID != "r1" || c.sessionID != "S" {
		t.Errorf("submitted (%q, %q), want (r1, S)", c.robotID, c.sessionID)
	}
	if len(c.events) != 2 || c.events[0].Message != "a" || c.events[1].Message != "b" {
		t.Errorf("bundle = %+v, want [a b] in order", c.events)
	}
	if agg.Len() != 0 || agg.Buffered("r1") != nil {
		t.Error("session should be gone after flush")
	}
}

func TestObserveEndWithoutSession(t *testing.T) {
	t.Parallel()

	fwd := &recordingForwarder{result: Result{Success: true}}
	agg := NewAggregator(Config{}, fwd)

	if got := agg.Observe(context.Background(), end("r2", "S")); got != OutcomeEmpty {
		t.Errorf("Observe(end) = %v, want empty", got)
	}
	if len(fwd.Calls()) != 0 {
		t.Error("forwarder called for an empty session")
	}
	if agg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", agg.Len())
	}
}

func TestObserveTagMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		tag  string
		want Outcome
	}{
		{"default tag", Config{}, "submission", OutcomeBuffered},
		{"case-insensitive", Config{}, "SUBMISSION", OutcomeBuffered},
		{"untagged", Config{}, "", OutcomeIgnored},
		{"other tag", Config{}, "heartbeat", OutcomeIgnored},
		{"submission_start not buffered by default", Config{}, "submission_start", OutcomeIgnored},
		{"custom tags", Config{BufferTags: []string{"quiz", "Submission_Start"}}, "submission_start", OutcomeBuffered},
		{"custom tags replace default", Config{BufferTags: []string{"quiz"}}, "submission", OutcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			agg := NewAggregator(tt.cfg, &recordingForwarder{})
			if got := agg.Observe(context.Background(), ev("r", tt.tag, "m")); got != tt.want {
				t.Errorf("Observe(tag=%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestObserveEndCaseInsensitive(t *testing.T) {
	t.Parallel()

	fwd := &recordingForwarder{result: Result{Success: true}}
	agg := NewAggregator(Config{}, fwd)
	ctx := context.Background()

	agg.Observe(ctx, ev("r", "submission", "a"))
	endEvent := end("r", "S")
	endEvent.Tag = "Submission_END"
	if got := agg.Observe(ctx, endEvent); got != OutcomeForwarded {
		t.Errorf("Observe(Submission_END) = %v, want forwarded", got)
	}
}

func TestForwardFailureClearsBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fwd  *recordingForwarder
		want Outcome
	}{
		{"transport error", &recordingForwarder{err: errors.New("nats: timeout")}, OutcomeFailed},
		{"rejected", &recordingForwarder{result: Result{Success: false, Message: "unknown lesson"}}, OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			agg := NewAggregator(Config{}, tt.fwd)
			ctx := context.Background()

			agg.Observe(ctx, ev("r", "submission", "a"))
			if got := agg.Observe(ctx, end("r", "S")); got != tt.want {
				t.Errorf("Observe(end) = %v, want %v", got, tt.want)
			}
			if agg.Buffered("r") != nil {
				t.Error("buffer should be cleared after a failed forward")
			}

			// A second end forwards nothing.
			if got := agg.Observe(ctx, end("r", "S")); got != OutcomeEmpty {
				t.Errorf("second Observe(end) = %v, want empty", got)
			}
			if len(tt.fwd.Calls()) != 1 {
				t.Errorf("forward calls = %d, want 1", len(tt.fwd.Calls()))
			}
		})
	}
}

func TestSessionsAreIsolatedPerRobot(t *testing.T) {
	t.Parallel()

	fwd := &recordingForwarder{result: Result{Success: true}}
	agg := NewAggregator(Config{}, fwd)
	ctx := context.Background()

	agg.Observe(ctx, ev("r1", "submission", "r1-a"))
	agg.Observe(ctx, ev("r2", "submission", "r2-a"))
	if agg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", agg.Len())
	}

	agg.Observe(ctx, end("r1", "S1"))

	if got := agg.Buffered("r2"); len(got) != 1 || got[0].Message != "r2-a" {
		t.Errorf("Buffered(r2) = %+v, want untouched", got)
	}
	calls := fwd.Calls()
	if len(calls) != 1 || len(calls[0].events) != 1 || calls[0].events[0].Message != "r1-a" {
		t.Errorf("calls = %+v, want only r1's event", calls)
	}
}

func TestForwardSurvivesCallerCancellation(t *testing.T) {
	t.Parallel()

	var sawErr error
	fwd := ForwarderFunc(func(ctx context.Context, _, _ string, _ []byte) (Result, error) {
		sawErr = ctx.Err()
		if _, ok := ctx.Deadline(); !ok {
			return Result{}, errors.New("forward context has no deadline")
		}
		return Result{Success: true}, nil
	})
	agg := NewAggregator(Config{ForwardTimeout: time.Second}, fwd)

	ctx, cancel := context.WithCancel(context.Background())
	agg.Observe(ctx, ev("r", "submission", "a"))
	cancel()

	if got := agg.Observe(ctx, end("r", "S")); got != OutcomeForwarded {
		t.Errorf("Observe(end) = %v, want forwarded", got)
	}
	if sawErr != nil {
		t.Errorf("forward context error = %v, want nil", sawErr)
	}
}

func TestForwardTimeout(t *testing.T) {
	t.Parallel()

	fwd := ForwarderFunc(func(ctx context.Context, _, _ string, _ []byte) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	})
	agg := NewAggregator(Config{ForwardTimeout: 20 * time.Millisecond}, fwd)
	ctx := context.Background()

	agg.Observe(ctx, ev("r", "submission", "a"))
	start := time.Now()
	if got := agg.Observe(ctx, end("r", "S")); got != OutcomeFailed {
		t.Errorf("Observe(end) = %v, want failed", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("forward took %v, want it bounded by the timeout", elapsed)
	}
}

// TestConcurrentAppendAndFlush checks that every buffered event is either
// forwarded exactly once or still buffered.
func TestConcurrentAppendAndFlush(t *testing.T) {
	t.Parallel()

	fwd := &recordingForwarder{result: Result{Success: true}}
	agg := NewAggregator(Config{}, fwd)
	ctx := context.Background()

	const (
		robots    = 4
		producers = 4
		perWorker = 200
	)

	var wg sync.WaitGroup
	for r := 0; r < robots; r++ {
		robot := fmt.Sprintf("r%d", r)
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					agg.Observe(ctx, ev(robot, "submission", fmt.Sprintf("%d-%d", p, i)))
				}
			}(p)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				agg.Observe(ctx, end(robot, fmt.Sprintf("S%d", i)))
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]int)
	for _, c := range fwd.Calls() {
		for _, e := range c.events {
			if e.RobotID != c.robotID {
				t.Fatalf("event for %s forwarded in %s's bundle", e.RobotID, c.robotID)
			}
			seen[c.robotID+"/"+e.Message]++
		}
	}
	for r := 0; r < robots; r++ {
		robot := fmt.Sprintf("r%d", r)
		for _, e := range agg.Buffered(robot) {
			seen[robot+"/"+e.Message]++
		}
	}

	want := robots * producers * perWorker
	if len(seen) != want {
		t.Errorf("distinct events = %d, want %d", len(seen), want)
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("event %s seen %d times, want 1", k, n)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()
	if OutcomeForwarded.String() != "forwarded" || Outcome(99).String() != "outcome(99)" {
		t.Error("unexpected Outcome.String()")
	}
}
