// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and in range.
func (c *Config) Validate() error {
	if err := c.validateSink(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateSpool(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateForwarder(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSink() error {
	if c.Sink.URL == "" {
		return fmt.Errorf("SINK_URL is required")
	}
	if err := validateSinkURL(c.Sink.URL, "SINK_URL"); err != nil {
		return err
	}
	if c.Sink.Timeout < 0 {
		return fmt.Errorf("SINK_TIMEOUT must not be negative, got %v", c.Sink.Timeout)
	}
	if c.Sink.RateLimit < 0 {
		return fmt.Errorf("SINK_RATE_LIMIT must not be negative, got %v", c.Sink.RateLimit)
	}
	if c.Sink.BreakerFailures > 0 && c.Sink.BreakerTimeout <= 0 {
		return fmt.Errorf("SINK_BREAKER_TIMEOUT must be positive when the breaker is enabled")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Queue.Capacity < 1 {
		return fmt.Errorf("QUEUE_CAPACITY must be at least 1, got %d", c.Queue.Capacity)
	}
	if c.Queue.Workers < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.Queue.Workers)
	}
	if c.Retry.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.BaseDelayMS < 0 {
		return fmt.Errorf("BASE_DELAY_MS must not be negative, got %d", c.Retry.BaseDelayMS)
	}
	return nil
}

func (c *Config) validateSpool() error {
	if strings.TrimSpace(c.Spool.Path) == "" {
		return fmt.Errorf("FAILURE_SPOOL_PATH is required")
	}
	if c.Spool.FallbackPath != "" && c.Spool.FallbackPath == c.Spool.Path {
		return fmt.Errorf("SPOOL_FALLBACK_PATH must differ from FAILURE_SPOOL_PATH")
	}
	if c.Spool.ReplayInterval < 0 {
		return fmt.Errorf("SPOOL_REPLAY_INTERVAL must not be negative, got %v", c.Spool.ReplayInterval)
	}
	return nil
}

func (c *Config) validateSession() error {
	for _, tag := range c.Session.BufferTags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("SESSION_BUFFER_TAGS must not contain empty tags")
		}
	}
	if c.Session.ForwardTimeout <= 0 {
		return fmt.Errorf("SESSION_FORWARD_TIMEOUT must be positive, got %v", c.Session.ForwardTimeout)
	}
	return nil
}

func (c *Config) validateForwarder() error {
	if !c.Forwarder.Enabled {
		return nil
	}
	if c.Forwarder.NATSURL == "" {
		return fmt.Errorf("FORWARDER_NATS_URL is required when FORWARDER_ENABLED=true")
	}
	if err := validateNATSURL(c.Forwarder.NATSURL); err != nil {
		return fmt.Errorf("FORWARDER_NATS_URL %w", err)
	}
	if strings.TrimSpace(c.Forwarder.Subject) == "" {
		return fmt.Errorf("FORWARDER_SUBJECT is required when FORWARDER_ENABLED=true")
	}
	if c.Forwarder.Timeout <= 0 {
		return fmt.Errorf("FORWARDER_TIMEOUT must be positive, got %v", c.Forwarder.Timeout)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
