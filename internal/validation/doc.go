// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

// Package validation wraps go-playground/validator v10 for request validation.
//
// A single validator instance is built once and reused (it caches struct
// metadata). Field names in error messages use the JSON tag name so robots see
// the key they sent:
//
//	{"code": "VALIDATION_ERROR", "message": "robotId is required"}
//
// ValidateLogEvent adds the rule struct tags cannot express: a submission_end
// event must carry accountLessonId.
package validation
