// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/tomtom215/robolog/internal/api"
	"github.com/tomtom215/robolog/internal/config"
	"github.com/tomtom215/robolog/internal/delivery"
	"github.com/tomtom215/robolog/internal/forwarder"
	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/pipeline"
	"github.com/tomtom215/robolog/internal/replay"
	"github.com/tomtom215/robolog/internal/session"
	"github.com/tomtom215/robolog/internal/spool"
	"github.com/tomtom215/robolog/internal/supervisor"
	"github.com/tomtom215/robolog/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("sink_url", cfg.Sink.URL).
		Int("queue_capacity", cfg.Queue.Capacity).
		Int("workers", cfg.Queue.Workers).
		Int("max_retries", cfg.Retry.MaxRetries).
		Str("spool_path", cfg.Spool.Path).
		Bool("forwarder_enabled", cfg.Forwarder.Enabled).
		Msg("Starting Robolog")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Robolog exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires the components and blocks until a shutdown signal arrives.
func run(cfg *config.Config) error {
	// === FAILURE SPOOL ===
	var spoolOpts []spool.Option
	var fallback replay.Fallback
	if cfg.Spool.FallbackPath != "" {
		fb, err := spool.OpenFallback(cfg.Spool.FallbackPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := fb.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing fallback spool")
			}
		}()
		spoolOpts = append(spoolOpts, spool.WithFallback(fb))
		fallback = fb
		logging.Info().Str("path", cfg.Spool.FallbackPath).Msg("Fallback spool enabled")
	}
	failureSpool := spool.Open(cfg.Spool.Path, spoolOpts...)

	// === DELIVERY ===
	client, err := delivery.NewClient(delivery.Config{
		URL:             cfg.Sink.URL,
		Timeout:         cfg.Sink.Timeout,
		MaxRetries:      cfg.Retry.MaxRetries,
		BaseDelay:       cfg.Retry.BaseDelay(),
		RateLimit:       cfg.Sink.RateLimit,
		RateBurst:       cfg.Sink.RateBurst,
		BreakerFailures: cfg.Sink.BreakerFailures,
		BreakerTimeout:  cfg.Sink.BreakerTimeout,
	})
	if err != nil {
		return err
	}

	// === SUBMISSION FORWARDER ===
	fwd, closeForwarder, err := newForwarder(cfg)
	if err != nil {
		return err
	}
	defer closeForwarder()

	// === PIPELINE ===
	aggregator := session.NewAggregator(session.Config{
		BufferTags:     cfg.Session.BufferTags,
		ForwardTimeout: cfg.Session.ForwardTimeout,
	}, fwd)

	dispatcher, err := pipeline.NewDispatcher(cfg.Queue.Capacity)
	if err != nil {
		return err
	}
	pool, err := pipeline.NewPool(pipeline.PoolConfig{Workers: cfg.Queue.Workers}, dispatcher, client, failureSpool)
	if err != nil {
		return err
	}

	replayService := replay.NewService(failureSpool, fallback, client)
	ingestor := pipeline.NewIngestor(dispatcher, aggregator, replayService, pipeline.WithPool(pool))

	// === HTTP API ===
	handler := api.NewHandler(ingestor, api.WithForwarderStatus(fwd))
	router := api.NewRouter(handler, api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	))
	server := services.NewHTTPServer(cfg.Server.Addr(), router.SetupChi(), cfg.Server.Timeout)

	// === SUPERVISOR TREE ===
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if cfg.Spool.ReplayInterval > 0 {
		tree.AddDataService(services.NewReplayLoopService(replay.NewLoop(replayService, cfg.Spool.ReplayInterval)))
	}
	tree.AddPipelineService(pool)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if n := dispatcher.Len(); n > 0 {
		logging.Warn().Int("queued", n).Msg("Events left in queue after shutdown")
	}
	return nil
}

// forwarderHandle is the forwarder plus the connection check used by
// /health/ready.
type forwarderHandle interface {
	session.Forwarder
	api.ConnectionChecker
}

// newForwarder returns the NATS forwarder when enabled, otherwise a no-op.
// The returned close func is always safe to call.
func newForwarder(cfg *config.Config) (forwarderHandle, func(), error) {
	if !cfg.Forwarder.Enabled {
		logging.Info().Msg("Submission forwarding disabled")
		return forwarder.NoopForwarder{}, func() {}, nil
	}

	nf, err := forwarder.NewNATSForwarder(forwarder.Config{
		URL:     cfg.Forwarder.NATSURL,
		Subject: cfg.Forwarder.Subject,
		Timeout: cfg.Forwarder.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := nf.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing submission forwarder")
		}
	}
	return nf, closeFn, nil
}
