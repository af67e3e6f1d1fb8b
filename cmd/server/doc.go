// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package main is the entry point for the ridematch server.

Ridematch stores riders, drivers and ride offers, answers proximity and
route-overlap queries over HTTP, and keeps websocket clients up to date
with chat and live location broadcasts.

# Application Architecture

	RootSupervisor ("ridematch")
	├── InfraSupervisor ("infra-layer")
	│   └── embedded NATS server (cluster.embedded_server)
	├── RealtimeSupervisor ("realtime-layer")
	│   ├── liveness monitor (heartbeat sweep)
	│   ├── presence sweeper (stale nearby-user entries)
	│   ├── cluster bridge (cluster.enabled)
	│   └── connection drain
	└── APISupervisor ("api-layer")
	    └── HTTP server

Startup order:

 1. Configuration: koanf with defaults, config.yaml and environment variables
 2. Entity store: memory or badger
 3. Presence index seeded from active users with a known location
 4. Connection registry, broadcaster and event dispatcher
 5. Cluster relay (optional)
 6. HTTP router and supervisor tree

# Configuration

Environment variables override the config file, for example:

	HTTP_PORT=5000
	STORAGE_BACKEND=badger STORAGE_PATH=/data/ridematch
	MATCH_RADIUS_DEGREES=0.1
	CHAT_SCOPE=participants
	NATS_ENABLED=true NATS_URL=nats://nats:4222
	LOG_LEVEL=debug LOG_FORMAT=console

# Signal Handling

SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
requests within server.shutdown_timeout, open websocket connections are
closed, and the store is closed last.
*/
package main
