// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package config loads and validates Ridematch configuration.

Configuration is layered with koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, then config.yaml / config.yml in the
    working directory, then /etc/ridematch/config.yaml
 3. Mapped environment variables (see envMappings)

Unmapped environment variables are ignored.

# Sections

  - server: HTTP listener and timeouts (HTTP_HOST, HTTP_PORT, ...)
  - storage: entity store backend, memory or badger (STORAGE_BACKEND, STORAGE_PATH)
  - matching: proximity threshold in degrees (MATCH_RADIUS_DEGREES)
  - realtime: websocket heartbeat, queues, chat scope and presence (WS_*, CHAT_SCOPE)
  - cluster: optional NATS relay between instances (NATS_*)
  - security: CORS, HTTP rate limiting, password rules (CORS_ORIGINS, RATE_LIMIT_*)
  - logging: level, format and caller info (LOG_LEVEL, LOG_FORMAT, LOG_CALLER)

# Distance units

All proximity thresholds are planar distances in degrees of latitude and
longitude. One degree is roughly 111 km of latitude but shrinks in longitude
away from the equator, so a fixed threshold covers a narrower east-west
band at high latitudes.
*/
package config
