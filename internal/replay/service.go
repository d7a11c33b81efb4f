// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package replay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/metrics"
	"github.com/tomtom215/robolog/internal/models"
	"github.com/tomtom215/robolog/internal/spool"
)

// Deliverer pushes one event to the sink, retrying internally.
type Deliverer interface {
	Deliver(ctx context.Context, event *models.LogEvent) bool
}

// Store is the line-oriented spool being replayed.
//
// Satisfied by *spool.FileSpool.
type Store interface {
	ReadLines() ([]string, int64, error)
	ReplaceBefore(end int64, lines []string) error
}

// Fallback is the secondary store drained after the file.
//
// Satisfied by *spool.FallbackSpool.
type Fallback interface {
	Pending(ctx context.Context, limit int) ([]spool.FallbackEntry, error)
	Delete(key []byte) error
}

// Result summarizes one replay run.
type Result struct {
	Delivered int
	Kept      int
	Poison    int
	Fallback  int
	Duration  time.Duration
}

// Service replays spooled events. It is safe for concurrent use.
type Service struct {
	store     Store
	fallback  Fallback
	deliverer Deliverer

	mu sync.Mutex
}

// NewService creates a replay service. fallback may be nil.
func NewService(store Store, fallback Fallback, deliverer Deliverer) *Service {
	return &Service{
		store:     store,
		fallback:  fallback,
		deliverer: deliverer,
	}
}

// ReplayAll delivers every spooled event it can and returns how many were
// delivered.
func (s *Service) ReplayAll(ctx context.Context) (int, error) {
	res, err := s.Replay(ctx)
	return res.Delivered, err
}

// Replay runs one replay and returns the full result.
func (s *Service) Replay(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res, err := s.replayFile(ctx)
	if err != nil {
		metrics.RecordReplay(0, 0, 0, err)
		logging.Error().Err(err).Msg("Spool replay failed")
		return res, err
	}

	if s.fallback != nil {
		n, fbErr := s.replayFallback(ctx)
		res.Fallback = n
		res.Delivered += n
		if fbErr != nil {
			err = fmt.Errorf("replay fallback: %w", fbErr)
			logging.Warn().Err(fbErr).Msg("Fallback spool replay incomplete")
		}
	}
	res.Duration = time.Since(start)

	metrics.RecordReplay(res.Delivered, res.Kept, res.Poison, err)
	if res.Poison > 0 {
		logging.Warn().Int("poison_lines", res.Poison).Msg("Spool holds unparseable lines")
	}
	if res.Delivered > 0 || res.Kept > 0 {
		logging.Info().
			Int("delivered", res.Delivered).
			Int("kept", res.Kept).
			Int("poison", res.Poison).
			Int("from_fallback", res.Fallback).
			Dur("duration", res.Duration).
			Msg("Spool replay complete")
	}
	return res, err
}

func (s *Service) replayFile(ctx context.Context) (Result, error) {
	var res Result

	lines, end, err := s.store.ReadLines()
	if err != nil {
		return res, fmt.Errorf("read spool: %w", err)
	}
	if len(lines) == 0 {
		return res, nil
	}

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if ctx.Err() != nil {
			kept = append(kept, lines[i:]...)
			break
		}

		var event models.LogEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			res.Poison++
			kept = append(kept, line)
			continue
		}

		if s.deliverer.Deliver(ctx, &event) {
			res.Delivered++
		} else {
			kept = append(kept, line)
		}
	}
	res.Kept = len(kept)

	if res.Delivered == 0 {
		return res, nil
	}
	if err := s.store.ReplaceBefore(end, kept); err != nil {
		// The delivered lines stay in the spool and will be sent again.
		return res, fmt.Errorf("rewrite spool: %w", err)
	}
	return res, nil
}

func (s *Service) replayFallback(ctx context.Context) (int, error) {
	entries, err := s.fallback.Pending(ctx, 0)
	if err != nil {
		return 0, err
	}

	delivered := 0
	var errs []error
	for i := range entries {
		if ctx.Err() != nil {
			break
		}
		if !s.deliverer.Deliver(ctx, &entries[i].Event) {
			continue
		}
		delivered++
		if err := s.fallback.Delete(entries[i].Key); err != nil {
			errs = append(errs, err)
		}
	}
	return delivered, errors.Join(errs...)
}
