// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

// Package models defines the data shapes shared across Robolog: the LogEvent a
// robot submits, and the JSON envelope returned by the HTTP API.
//
// LogEvent JSON uses the field names robots already emit (robotId,
// accountLessonId). The same encoding is used for failure spool lines and for
// the submission bundle handed to the grading service, so a spooled line can
// be re-read without translation.
package models
