// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/robolog/config.yaml",
	"/etc/robolog/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults; file and env layers override them.
func defaultConfig() *Config {
	return &Config{
		Sink: SinkConfig{
			URL:             "http://localhost:3100/loki/api/v1/push",
			Timeout:         10 * time.Second,
			RateLimit:       0,
			RateBurst:       1,
			BreakerFailures: 0,
			BreakerTimeout:  30 * time.Second,
		},
		Queue: QueueConfig{
			Capacity: 10000,
			Workers:  4,
		},
		Retry: RetryConfig{
			MaxRetries:  3,
			BaseDelayMS: 500,
		},
		Spool: SpoolConfig{
			Path:           "failed-logs.jsonl",
			FallbackPath:   "",
			ReplayInterval: 0,
		},
		Session: SessionConfig{
			BufferTags:     []string{"submission"},
			ForwardTimeout: 10 * time.Second,
		},
		Forwarder: ForwarderConfig{
			Enabled: false,
			NATSURL: "nats://127.0.0.1:4222",
			Subject: "course.submission.robot_logs",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8085,
			Timeout:           30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitReqs:     6000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > file > defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SINK_URL -> sink.url, QUEUE_CAPACITY -> queue.capacity, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"session.buffer_tags",
	"server.cors_origins",
}

// processSliceFields converts comma-separated strings into slices for the
// known slice fields. YAML lists are left untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings is the allow-list of environment variables. Anything else in
// the environment is ignored.
var envMappings = map[string]string{
	// Sink
	"sink_url":              "sink.url",
	"loki_url":              "sink.url",
	"sink_timeout":          "sink.timeout",
	"sink_rate_limit":       "sink.rate_limit",
	"sink_rate_burst":       "sink.rate_burst",
	"sink_breaker_failures": "sink.breaker_failures",
	"sink_breaker_timeout":  "sink.breaker_timeout",

	// Queue and workers
	"queue_capacity": "queue.capacity",
	"queue_size":     "queue.capacity",
	"worker_count":   "queue.workers",

	// Retry
	"max_retries":   "retry.max_retries",
	"base_delay_ms": "retry.base_delay_ms",

	// Spool
	"failure_spool_path":    "spool.path",
	"failed_log_file":       "spool.path",
	"spool_fallback_path":   "spool.fallback_path",
	"spool_replay_interval": "spool.replay_interval",

	// Sessions
	"session_buffer_tags":     "session.buffer_tags",
	"session_forward_timeout": "session.forward_timeout",

	// Forwarder
	"forwarder_enabled":  "forwarder.enabled",
	"forwarder_nats_url": "forwarder.nats_url",
	"forwarder_subject":  "forwarder.subject",
	"forwarder_timeout":  "forwarder.timeout",

	// Server
	"http_host":              "server.host",
	"http_port":              "server.port",
	"http_timeout":           "server.timeout",
	"http_shutdown_timeout":  "server.shutdown_timeout",
	"rate_limit_requests":    "server.rate_limit_reqs",
	"rate_limit_window":      "server.rate_limit_window",
	"disable_rate_limit":     "server.rate_limit_disabled",
	"cors_origins":           "server.cors_origins",
	"supervisor_shutdown":    "supervisor.shutdown_timeout",
	"supervisor_backoff":     "supervisor.failure_backoff",
	"supervisor_threshold":   "supervisor.failure_threshold",
	"supervisor_decay":       "supervisor.failure_decay",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path, or
// "" to skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
