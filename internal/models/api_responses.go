// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" or "error"; on error the Error field is populated.
//
//	{
//	  "status": "success",
//	  "data": {"accepted": true},
//	  "metadata": {"timestamp": "2026-10-18T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// IngestResult is the payload of a POST /logs response.
type IngestResult struct {
	Accepted bool `json:"accepted"`
}

// ReplayResult is the payload of a POST /logs/retry-failed response.
type ReplayResult struct {
	Retried int `json:"retried"`
}

// PipelineStats is the payload of GET /stats.
type PipelineStats struct {
	QueueDepth     int  `json:"queue_depth"`
	QueueCapacity  int  `json:"queue_capacity"`
	Workers        int  `json:"workers"`
	WorkersRunning bool `json:"workers_running"`
	WorkersBusy    int  `json:"workers_busy"`
	OpenSessions   int  `json:"open_sessions"`
}
