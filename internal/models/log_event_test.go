// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestLogEvent_WireNames(t *testing.T) {
	t.Parallel()

	raw := `{"robotId":"r-1","level":"INFO","tag":"submission","message":"say \"hi\"\nnow","timestamp":1700000000000,"accountLessonId":"6b0f7c0e-3f0a-4b7e-9a51-2f1e2d3c4b5a","type":"speech","code":"012"}`

	var e LogEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.RobotID != "r-1" || e.SessionID != "6b0f7c0e-3f0a-4b7e-9a51-2f1e2d3c4b5a" {
		t.Errorf("unexpected decode: %+v", e)
	}
	if e.Message != "say \"hi\"\nnow" {
		t.Errorf("message not decoded verbatim: %q", e.Message)
	}
	if e.Type != "speech" || e.Code != "012" {
		t.Errorf("type/code not decoded: %+v", e)
	}
}

func TestLogEvent_IsSessionEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want bool
	}{
		{"submission_end", true},
		{"SUBMISSION_END", true},
		{"Submission_End", true},
		{"submission", false},
		{"submission_start", false},
		{"", false},
	}
	for _, tt := range tests {
		e := LogEvent{Tag: tt.tag}
		if got := e.IsSessionEnd(); got != tt.want {
			t.Errorf("IsSessionEnd(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestLogEvent_HasTag(t *testing.T) {
	t.Parallel()

	tags := []string{TagSubmission, TagSubmissionStart}
	tests := []struct {
		tag  string
		want bool
	}{
		{"submission", true},
		{"Submission", true},
		{"submission_start", true},
		{"submission_end", false},
		{"", false},
		{"motion", false},
	}
	for _, tt := range tests {
		e := LogEvent{Tag: tt.tag}
		if got := e.HasTag(tags); got != tt.want {
			t.Errorf("HasTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestLogEvent_StampIfMissing(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_800_000_000_000)

	supplied := LogEvent{Timestamp: 1_700_000_000_000}
	supplied.StampIfMissing(now)
	if supplied.Timestamp != 1_700_000_000_000 {
		t.Errorf("producer timestamp overwritten: %d", supplied.Timestamp)
	}

	for _, ts := range []int64{0, -5} {
		e := LogEvent{Timestamp: ts}
		e.StampIfMissing(now)
		if e.Timestamp != now.UnixMilli() {
			t.Errorf("timestamp %d not replaced with ingestion time, got %d", ts, e.Timestamp)
		}
	}
}

func TestLogEvent_UnixNano(t *testing.T) {
	t.Parallel()

	e := LogEvent{Timestamp: 1_700_000_000_123}
	if got := e.UnixNano(); got != 1_700_000_000_123_000_000 {
		t.Errorf("UnixNano() = %d", got)
	}
	if !e.Time().Equal(time.UnixMilli(1_700_000_000_123)) {
		t.Errorf("Time() = %v", e.Time())
	}
	if !(&LogEvent{}).Time().IsZero() {
		t.Error("expected zero time for absent timestamp")
	}
}

func TestLogEvent_CheckSession(t *testing.T) {
	t.Parallel()

	if err := (&LogEvent{Tag: "submission_end"}).CheckSession(); !errors.Is(err, ErrMissingSessionID) {
		t.Errorf("expected ErrMissingSessionID, got %v", err)
	}
	if err := (&LogEvent{Tag: "submission_end", SessionID: "  "}).CheckSession(); !errors.Is(err, ErrMissingSessionID) {
		t.Errorf("expected ErrMissingSessionID for blank session, got %v", err)
	}
	if err := (&LogEvent{Tag: "submission_end", SessionID: "s-1"}).CheckSession(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&LogEvent{Tag: "submission"}).CheckSession(); err != nil {
		t.Errorf("unexpected error for non-terminal tag: %v", err)
	}
}

func TestLogEvent_OmitsEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(LogEvent{RobotID: "r-1", Level: "INFO", Message: "m"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"accountLessonId", "type", "code", "tag"} {
		if strings.Contains(string(data), key) {
			t.Errorf("expected %s to be omitted, got %s", key, data)
		}
	}
}
