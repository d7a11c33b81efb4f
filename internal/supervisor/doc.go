// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

/*
Package supervisor provides process supervision for Robolog using suture v4.

The tree organizes long-running services into three layers:

	RootSupervisor ("robolog")
	├── DataSupervisor ("data-layer")
	│   └── ReplayLoopService (if SPOOL_REPLAY_INTERVAL > 0)
	├── PipelineSupervisor ("pipeline-layer")
	│   └── pipeline.Pool (delivery workers)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed worker pool is restarted without dropping the HTTP listener, and a
failing replay loop never touches admission. Supervisor events (restarts,
backoff, stop timeouts) are written through sutureslog into the zerolog
stream via logging.NewSlogLogger.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Supervisor.ShutdownTimeout,
	})
	tree.AddPipelineService(pool)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor tree exited")
	}

All layers are cancelled together on shutdown. Events admitted while the
pool drains are spooled, and requests arriving after the dispatcher closes
get 503, so no accepted event is lost.
*/
package supervisor
