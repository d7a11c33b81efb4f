// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package delivery

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/robolog/internal/models"
)

// Stream label names.
const (
	LabelRobot = "robot"
	LabelLevel = "level"
	LabelTag   = "tag"
)

// unknownRobot labels events that somehow reach the sink without a robot ID
// (old spool lines). Loki rejects streams without labels.
const unknownRobot = "unknown"

// PushRequest is the Loki push API body.
type PushRequest struct {
	Streams []Stream `json:"streams"`
}

// Stream is one labelled stream with its [timestamp, line] pairs.
type Stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// BuildPayload encodes a single-event push request. Empty level and tag
// labels are omitted. An event without a timestamp is stamped with now.
func BuildPayload(event *models.LogEvent, now time.Time) ([]byte, error) {
	labels := map[string]string{LabelRobot: event.RobotID}
	if event.RobotID == "" {
		labels[LabelRobot] = unknownRobot
	}
	if event.Level != "" {
		labels[LabelLevel] = event.Level
	}
	if event.Tag != "" {
		labels[LabelTag] = event.Tag
	}

	ts := event.UnixNano()
	if ts <= 0 {
		ts = now.UnixNano()
	}

	req := PushRequest{
		Streams: []Stream{{
			Stream: labels,
			Values: [][2]string{{strconv.FormatInt(ts, 10), event.Message}},
		}},
	}
	return json.Marshal(req)
}
