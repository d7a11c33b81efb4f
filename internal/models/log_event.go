// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package models

import (
	"errors"
	"strings"
	"time"
)

// Recognized control tags.
const (
	TagSubmission      = "submission"
	TagSubmissionStart = "submission_start"
	TagSubmissionEnd   = "submission_end"
)

// ErrMissingSessionID is returned by Validate when a submission_end event
// carries no session identifier.
var ErrMissingSessionID = errors.New("accountLessonId is required for submission_end events")

// LogEvent is one telemetry record emitted by a robot.
type LogEvent struct {
	// RobotID identifies the emitting robot and keys session aggregation.
	RobotID string `json:"robotId" validate:"required,max=256"`

	// Level is a free-form severity marker (INFO, WARN, ERROR, ...).
	Level string `json:"level" validate:"max=64"`

	// Tag is an optional control marker. submission, submission_start and
	// submission_end drive session aggregation; anything else is a plain event.
	Tag string `json:"tag,omitempty" validate:"max=128"`

	// Message is the payload text.
	Message string `json:"message"`

	// Timestamp is the producer time in epoch milliseconds. Zero means absent.
	Timestamp int64 `json:"timestamp,omitempty" validate:"gte=0"`

	// SessionID groups a submission bundle. Required for submission_end.
	SessionID string `json:"accountLessonId,omitempty" validate:"max=256"`

	// Type classifies the robot activity (action, speech, emotion, ...).
	Type string `json:"type,omitempty" validate:"max=64"`

	// Code is the robot action code ("012", "027", ...).
	Code string `json:"code,omitempty" validate:"max=64"`
}

// IsSessionEnd reports whether the event terminates a submission session.
// The match is case-insensitive.
func (e *LogEvent) IsSessionEnd() bool {
	return strings.EqualFold(e.Tag, TagSubmissionEnd)
}

// HasTag reports whether the event's tag case-insensitively matches one of tags.
func (e *LogEvent) HasTag(tags []string) bool {
	if e.Tag == "" {
		return false
	}
	for _, t := range tags {
		if strings.EqualFold(e.Tag, t) {
			return true
		}
	}
	return false
}

// StampIfMissing applies the timestamp policy: a producer-supplied timestamp
// is kept, a missing or non-positive one is replaced with now.
func (e *LogEvent) StampIfMissing(now time.Time) {
	if e.Timestamp <= 0 {
		e.Timestamp = now.UnixMilli()
	}
}

// Time returns the event timestamp as a time.Time. A zero timestamp yields
// the zero time.
func (e *LogEvent) Time() time.Time {
	if e.Timestamp <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.Timestamp)
}

// UnixNano returns the event timestamp in epoch nanoseconds, the unit the
// sink expects.
func (e *LogEvent) UnixNano() int64 {
	return e.Timestamp * int64(time.Millisecond)
}

// CheckSession enforces the rule the struct tags cannot express: a
// submission_end event must name its session.
func (e *LogEvent) CheckSession() error {
	if e.IsSessionEnd() && strings.TrimSpace(e.SessionID) == "" {
		return ErrMissingSessionID
	}
	return nil
}
