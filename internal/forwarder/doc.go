// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package forwarder delivers completed submission sessions to the grading
service.

NATSForwarder implements session.Forwarder with NATS request/reply. The
request body is

	{"robotId":"r-7","accountLessonId":"9f0c...","logDataJson":"[{...},{...}]"}

where logDataJson carries the session bundle as a JSON string. The grading
service answers with

	{"success":true,"message":"graded"}

No responder on the subject, a timeout or an undecodable reply are all
reported as errors. NoopForwarder is used when forwarding is disabled.
*/
package forwarder
