// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package spool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/robolog/internal/models"
)

func newTestSpool(t *testing.T, opts ...Option) *FileSpool {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "failed-logs.jsonl"), opts...)
}

func TestOpenIsLazy(t *testing.T) {
	t.Parallel()

	s := newTestSpool(t)
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("spool file should not exist before the first append, stat err = %v", err)
	}

	lines, end, err := s.ReadLines()
	if err != nil {
		t.Fatalf("ReadLines() on missing file error = %v", err)
	}
	if len(lines) != 0 || end != 0 {
		t.Errorf("ReadLines() = %v, %d; want empty, 0", lines, end)
	}
}

func TestAppendWritesJSONLines(t *testing.T) {
	t.Parallel()

	s := newTestSpool(t)
	events := []models.LogEvent{
		{RobotID: "r-1", Level: "INFO", Message: "one", Timestamp: 1},
		{RobotID: "r-2", Level: "WARN", Tag: "submission", Message: "two \"quoted\"\nline", Timestamp: 2, SessionID: "s-1"},
	}
	for i := range events {
		if err := s.Append(&events[i]); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("spool file should be newline-terminated")
	}

	lines, end, err := s.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	if end != int64(len(data)) {
		t.Errorf("end = %d, want %d", end, len(data))
	}
	if len(lines) != len(events) {
		t.Fatalf("lines = %d, want %d", len(lines), len(events))
	}
	for i, line := range lines {
		var got models.LogEvent
		if err := json.Unmarshal([]byte(line), &got); err != nil {
			t.Fatalf("line %d is not JSON: %v", i, err)
		}
		if got != events[i] {
			t.Errorf("line %d = %+v, want %+v", i, got, events[i])
		}
	}
}

func TestAppendAfterTornTail(t *testing.T) {
	t.Parallel()

	s := newTestSpool(t)
	if err := os.WriteFile(s.Path(), []byte(`{"robotId":"r-1","message":"ok"}`+"\n"+`{"robotId":"r-1","mess`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Append(&models.LogEvent{RobotID: "r-9", Message: "after crash", Timestamp: 9}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	lines, _, err := s.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("lines = %q, want 3 lines", lines)
	}
	if lines[1] != `{"robotId":"r-1","mess` {
		t.Errorf("torn line = %q, want it kept verbatim", lines[1])
	}
	var last models.LogEvent
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil || last.RobotID != "r-9" {
		t.Errorf("record after torn tail should parse, got %q (%v)", lines[2], err)
	}
}

func TestReplaceWith(t *testing.T) {
	t.Parallel()

	s := newTestSpool(t)
	for i := 0; i < 3; i++ {
		if err := s.Append(&models.LogEvent{RobotID: fmt.Sprintf("r-%d", i), Message: "m"}); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.ReplaceWith([]string{"not json"}); err != nil {
		t.Fatalf("ReplaceWith() error = %v", err)
	}
	lines, _, err := s.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "not json" {
		t.Errorf("lines = %q, want [not json]", lines)
	}

	if err := s.ReplaceWith(nil); err != nil {
		t.Fatalf("ReplaceWith(nil) error = %v", err)
	}
	lines, end, err := s.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 || end != 0 {
		t.Errorf("after empty rewrite lines = %q end = %d", lines, end)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestReplaceBeforeKeepsConcurrentAppends(t *testing.T) {
	t.Parallel()

	s := newTestSpool(t)
	for _, id := range []string{"a", "b"} {
		if err := s.Append(&models.LogEvent{RobotID: id, Message: "old"}); err != nil {
			t.Fatal(err)
		}
	}

	lines, end, err := s.ReadLines()
	if err != nil {
		t.Fatal(err)
	}

	// Appended while a replay was delivering the lines read above.
	if err := s.Append(&models.LogEvent{RobotID: "c", Message: "new"}); err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceBefore(end, lines[1:]); err != nil {
		t.Fatalf("ReplaceBefore() error = %v", err)
	}

	after, _, err := s.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 2 {
		t.Fatalf("lines = %q, want b and c", after)
	}
	if !strings.Contains(after[0], `"robotId":"b"`) || !strings.Contains(after[1], `"robotId":"c"`) {
		t.Errorf("lines = %q, want b then c", after)
	}
}

func TestConcurrentAppends(t *testing.T) {
	t.Parallel()

	s := newTestSpool(t)
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Append(&models.LogEvent{RobotID: fmt.Sprintf("r-%d", i), Message: strings.Repeat("x", 512)}); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	lines, _, err := s.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != n {
		t.Fatalf("lines = %d, want %d", len(lines), n)
	}
	for i, line := range lines {
		var ev models.LogEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("line %d interleaved or corrupt: %v", i, err)
		}
	}
}

func TestAppendFallsBackToBadger(t *testing.T) {
	t.Parallel()

	fb, err := OpenFallback(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFallback() error = %v", err)
	}
	t.Cleanup(func() { _ = fb.Close() })

	// A directory cannot be opened for appending.
	s := Open(t.TempDir(), WithFallback(fb))

	if err := s.Append(&models.LogEvent{RobotID: "r-1", Message: "rescued"}); err != nil {
		t.Fatalf("Append() error = %v, want fallback to absorb it", err)
	}

	entries, err := fb.Pending(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Event.Message != "rescued" {
		t.Errorf("fallback entries = %+v", entries)
	}
}

func TestAppendEventLost(t *testing.T) {
	t.Parallel()

	t.Run("no fallback", func(t *testing.T) {
		t.Parallel()
		s := Open(t.TempDir())
		err := s.Append(&models.LogEvent{RobotID: "r-1", Message: "gone"})
		if !errors.Is(err, ErrEventLost) {
			t.Errorf("Append() error = %v, want ErrEventLost", err)
		}
	})

	t.Run("closed fallback", func(t *testing.T) {
		t.Parallel()
		fb, err := OpenFallback(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := fb.Close(); err != nil {
			t.Fatal(err)
		}
		s := Open(t.TempDir(), WithFallback(fb))
		err = s.Append(&models.LogEvent{RobotID: "r-1", Message: "gone"})
		if !errors.Is(err, ErrEventLost) {
			t.Errorf("Append() error = %v, want ErrEventLost", err)
		}
		if !errors.Is(err, ErrFallbackClosed) {
			t.Errorf("Append() error = %v, want it to include ErrFallbackClosed", err)
		}
	})
}
