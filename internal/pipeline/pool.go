// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/metrics"
	"github.com/tomtom215/robolog/internal/models"
)

// Deliverer pushes one event to the sink, retrying internally.
//
// Satisfied by *delivery.Client.
type Deliverer interface {
	Deliver(ctx context.Context, event *models.LogEvent) bool
}

// Appender persists an undeliverable event.
//
// Satisfied by *spool.FileSpool.
type Appender interface {
	Append(event *models.LogEvent) error
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	Workers int
}

// Pool runs the delivery workers. It implements suture.Service.
type Pool struct {
	workers    int
	dispatcher *Dispatcher
	deliverer  Deliverer
	spool      Appender
	log        zerolog.Logger

	running atomic.Bool
	active  atomic.Int32
}

// NewPool creates a pool of cfg.Workers workers draining d.
func NewPool(cfg PoolConfig, d *Dispatcher, deliverer Deliverer, spool Appender) (*Pool, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidWorkers, cfg.Workers)
	}
	return &Pool{
		workers:    cfg.Workers,
		dispatcher: d,
		deliverer:  deliverer,
		spool:      spool,
		log:        logging.WithComponent("worker-pool"),
	}, nil
}

// Serve runs the workers until ctx is canceled. On the way out it stops
// admission and spools every event still queued.
func (p *Pool) Serve(ctx context.Context) error {
	p.dispatcher.Reopen()

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.work(ctx, id)
		}(i)
	}
	p.running.Store(true)
	metrics.WorkersActive.Set(float64(p.workers))
	p.log.Info().Int("workers", p.workers).Int("queue_capacity", p.dispatcher.Cap()).Msg("Worker pool started")

	wg.Wait()
	p.running.Store(false)
	metrics.WorkersActive.Set(0)

	p.dispatcher.Close()
	remaining := p.dispatcher.Drain()
	for _, ev := range remaining {
		p.spoolEvent(ev)
	}
	p.log.Info().Int("spooled_on_shutdown", len(remaining)).Msg("Worker pool stopped")

	return ctx.Err()
}

// String implements fmt.Stringer for suture logs.
func (p *Pool) String() string {
	return "worker-pool"
}

// Running reports whether workers are consuming the queue.
func (p *Pool) Running() bool {
	return p.running.Load()
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Active returns how many workers are delivering right now.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

func (p *Pool) work(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.dispatcher.Events():
			metrics.QueueDepth.Set(float64(p.dispatcher.Len()))
			if ctx.Err() != nil {
				p.spoolEvent(ev)
				return
			}
			p.process(ctx, id, ev)
		}
	}
}

func (p *Pool) process(ctx context.Context, id int, ev *models.LogEvent) {
	p.active.Add(1)
	defer p.active.Add(-1)

	if p.deliverer.Deliver(ctx, ev) {
		return
	}
	p.log.Debug().Int("worker", id).Str("robot_id", ev.RobotID).Msg("Delivery gave up, spooling event")
	p.spoolEvent(ev)
}

// spoolEvent appends ev to the spool. The spool logs and counts a lost event
// itself; the pool only records the context.
func (p *Pool) spoolEvent(ev *models.LogEvent) {
	if err := p.spool.Append(ev); err != nil {
		p.log.Error().Err(err).Str("robot_id", ev.RobotID).Msg("Failed to spool undelivered event")
	}
}
