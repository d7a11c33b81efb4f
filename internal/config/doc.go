// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

// Package config loads Robolog configuration with Koanf v2.
//
// # Loading Order
//
// Later layers override earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/robolog/config.yaml
//  3. Environment variables (explicit allow-list in envTransformFunc)
//
// # Pipeline Tunables
//
// The ingestion pipeline is driven by six settings:
//
//	SINK_URL            Loki push endpoint (LOKI_URL accepted as an alias)
//	QUEUE_CAPACITY      bounded admission queue size
//	WORKER_COUNT        concurrent delivery workers
//	MAX_RETRIES         push attempts per event
//	BASE_DELAY_MS       linear backoff base in milliseconds
//	FAILURE_SPOOL_PATH  append-only file for events that exhausted retries
//
// # Example config.yaml
//
//	sink:
//	  url: http://loki:3100/loki/api/v1/push
//	  timeout: 10s
//	queue:
//	  capacity: 10000
//	  workers: 8
//	retry:
//	  max_retries: 3
//	  base_delay_ms: 500
//	spool:
//	  path: /data/failed-logs.jsonl
//	  fallback_path: /data/spool-fallback
//	  replay_interval: 5m
//	session:
//	  buffer_tags: [submission]
//	forwarder:
//	  enabled: true
//	  nats_url: nats://nats:4222
//	  subject: course.submission.robot_logs
//
// Config is immutable after Load and safe for concurrent reads.
package config
