// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package session bundles per-robot submission logs and forwards them to the
grading service.

Events whose tag is one of the configured buffer tags (default
"submission", case-insensitive) are appended to the robot's open session.
A "submission_end" event closes the session: the buffered events are
serialized as one JSON array, in arrival order, and handed to a Forwarder
together with the robot ID and the event's accountLessonId.

Sessions are forwarded at most once. The buffer is removed before the
forwarder is called and is not restored if forwarding fails; failures are
logged and counted, never returned to the ingesting caller. An end event
for a robot with no buffered events forwards nothing.

Concurrency: the session map has its own lock and each session has another.
Events arriving for a robot while its previous session is being forwarded
start a new session.
*/
package session
