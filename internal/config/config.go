// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration categories:
//
//  1. Pipeline: Sink, Queue, Retry, Spool
//  2. Sessions: Session (aggregation rules), Forwarder (grading service RPC)
//  3. Surface: Server (HTTP ingest endpoint), Supervisor
//  4. Observability: Logging
type Config struct {
	Sink       SinkConfig       `koanf:"sink"`
	Queue      QueueConfig      `koanf:"queue"`
	Retry      RetryConfig      `koanf:"retry"`
	Spool      SpoolConfig      `koanf:"spool"`
	Session    SessionConfig    `koanf:"session"`
	Forwarder  ForwarderConfig  `koanf:"forwarder"`
	Server     ServerConfig     `koanf:"server"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// SinkConfig configures pushes to the Loki-compatible log sink.
type SinkConfig struct {
	// URL is the full push endpoint, e.g. http://loki:3100/loki/api/v1/push.
	URL string `koanf:"url"`

	// Timeout bounds a single push attempt. 0 lets a push block on the transport.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit caps pushes per second across all workers. 0 disables it.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the limiter burst size (default: 1 when RateLimit is set).
	RateBurst int `koanf:"rate_burst"`

	// BreakerFailures is the number of consecutive failed pushes that opens
	// the circuit breaker. 0 disables the breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// QueueConfig sizes the admission queue and the worker pool draining it.
type QueueConfig struct {
	Capacity int `koanf:"capacity"`
	Workers  int `koanf:"workers"`
}

// RetryConfig controls per-event delivery retries.
// The delay before attempt i+1 is BaseDelayMS*i milliseconds.
type RetryConfig struct {
	MaxRetries  int `koanf:"max_retries"`
	BaseDelayMS int `koanf:"base_delay_ms"`
}

// BaseDelay returns the backoff base as a duration.
func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMS) * time.Millisecond
}

// SpoolConfig configures the failure spool and its replay.
type SpoolConfig struct {
	// Path is the append-only JSON-lines file of undeliverable events.
	Path string `koanf:"path"`

	// FallbackPath is a BadgerDB directory that receives events when an append
	// to Path fails. Empty disables the fallback.
	FallbackPath string `koanf:"fallback_path"`

	// ReplayInterval runs a replay periodically. 0 means replay only on demand.
	ReplayInterval time.Duration `koanf:"replay_interval"`
}

// SessionConfig configures submission session aggregation.
type SessionConfig struct {
	// BufferTags lists the tags (case-insensitive) whose events are buffered
	// into the robot's open session.
	BufferTags []string `koanf:"buffer_tags"`

	// ForwardTimeout bounds one call to the grading service.
	ForwardTimeout time.Duration `koanf:"forward_timeout"`
}

// ForwarderConfig configures the NATS request/reply client that submits
// completed sessions to the grading service.
type ForwarderConfig struct {
	Enabled bool          `koanf:"enabled"`
	NATSURL string        `koanf:"nats_url"`
	Subject string        `koanf:"subject"`
	Timeout time.Duration `koanf:"timeout"`
}

// ServerConfig configures the HTTP ingest endpoint.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SupervisorConfig mirrors suture's restart tuning.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
