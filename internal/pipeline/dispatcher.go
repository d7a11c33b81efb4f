// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package pipeline

import (
	"fmt"
	"sync"

	"github.com/tomtom215/robolog/internal/metrics"
	"github.com/tomtom215/robolog/internal/models"
)

// Dispatcher is the bounded admission queue between ingestion and workers.
type Dispatcher struct {
	events chan *models.LogEvent

	// mu guards closed against concurrent Enqueue; Enqueue holds it for
	// reading so admissions never serialize on each other.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a queue holding at most capacity events.
func NewDispatcher(capacity int) (*Dispatcher, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	return &Dispatcher{events: make(chan *models.LogEvent, capacity)}, nil
}

// Enqueue offers event without blocking. It returns false if the queue is
// full or closed; a rejected event leaves no trace in the queue.
func (d *Dispatcher) Enqueue(event *models.LogEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.events <- event:
		metrics.QueueDepth.Set(float64(len(d.events)))
		return true
	default:
		return false
	}
}

// Events is the FIFO channel workers receive from.
func (d *Dispatcher) Events() <-chan *models.LogEvent {
	return d.events
}

// Len returns the number of queued events.
func (d *Dispatcher) Len() int {
	return len(d.events)
}

// Cap returns the queue capacity.
func (d *Dispatcher) Cap() int {
	return cap(d.events)
}

// Closed reports whether admission has stopped.
func (d *Dispatcher) Closed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Close stops admission. Queued events stay available to Drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// Reopen resumes admission after Close. The pool calls it when it is
// restarted by its supervisor.
func (d *Dispatcher) Reopen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = false
}

// Drain removes and returns every queued event without blocking.
func (d *Dispatcher) Drain() []*models.LogEvent {
	var out []*models.LogEvent
	for {
		select {
		case ev := <-d.events:
			out = append(out, ev)
		default:
			metrics.QueueDepth.Set(float64(len(d.events)))
			return out
		}
	}
}
