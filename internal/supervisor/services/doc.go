// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

// Package services adapts components with blocking or Start/Stop lifecycles
// to suture.Service so they can run under the supervisor tree.
//
//   - HTTPServerService: http.Server (ListenAndServe / Shutdown)
//   - ReplayLoopService: replay.Loop (Start / Stop / IsRunning)
//
// pipeline.Pool implements suture.Service directly and needs no wrapper.
package services
