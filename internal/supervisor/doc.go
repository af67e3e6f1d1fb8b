// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package supervisor runs ridematch's long-lived services under a suture v4
supervisor tree.

# Overview

	RootSupervisor ("ridematch")
	├── InfraSupervisor ("infra-layer")
	│   └── EmbeddedServerService (if cluster.embedded_server)
	├── RealtimeSupervisor ("realtime-layer")
	│   ├── websocket.LivenessMonitor
	│   ├── realtime.PresenceSweeper (if realtime.presence_ttl > 0)
	│   ├── realtime.ClusterBridge (if cluster.enabled)
	│   └── ConnectionDrainService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's decaying failure counter. Each layer
counts failures on its own, so a bridge stuck reconnecting never takes the
HTTP server down with it.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddRealtimeService(monitor)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

# Configuration

TreeConfig zero values fall back to suture's defaults: 5 failures, 30s
decay, 15s backoff and a 10s per-service shutdown timeout.

# Service Contract

Serve returns when ctx is canceled. Returning an error restarts the
service; returning suture.ErrDoNotRestart retires it.

# Debugging Shutdown

UnstoppedServiceReport lists services that did not stop within the
shutdown timeout.
*/
package supervisor
