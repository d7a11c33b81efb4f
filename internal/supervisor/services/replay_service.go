// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package services

import (
	"context"
	"fmt"
)

// StartStopper matches the replay loop lifecycle.
//
// Satisfied by *replay.Loop.
type StartStopper interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
}

// ReplayLoopService wraps the periodic spool replay loop as a supervised
// service.
//
// It adapts the Start/Stop lifecycle to suture's Serve pattern:
//  1. Calls Start(ctx) to begin the loop
//  2. Waits for context cancellation
//  3. Calls Stop(), which waits for an in-progress replay pass to finish
//
//	loop := replay.NewLoop(replayService, cfg.Spool.ReplayInterval)
//	tree.AddDataService(services.NewReplayLoopService(loop))
type ReplayLoopService struct {
	loop StartStopper
	name string
}

// NewReplayLoopService creates a new replay loop service wrapper.
func NewReplayLoopService(loop StartStopper) *ReplayLoopService {
	return &ReplayLoopService{
		loop: loop,
		name: "spool-replay-loop",
	}
}

// Serve implements suture.Service.
//
// If Start fails the error is returned immediately and suture restarts the
// service according to its backoff policy.
func (s *ReplayLoopService) Serve(ctx context.Context) error {
	if err := s.loop.Start(ctx); err != nil {
		return fmt.Errorf("replay loop start failed: %w", err)
	}

	<-ctx.Done()

	s.loop.Stop()
	return ctx.Err()
}

// String implements fmt.Stringer for suture log messages.
func (s *ReplayLoopService) String() string {
	return s.name
}
