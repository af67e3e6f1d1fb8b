// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package metrics declares the Prometheus instruments exported on /metrics.

Metric Families:

  - api_*: HTTP request counts, latency and in-flight requests
  - websocket_*: open connections, messages in and out, delivery failures
  - liveness_*: heartbeat ticks, probe failures and terminated connections
  - matcher_*: nearby/match query counts, latency and result sizes
  - presence_*: users tracked in the nearby-users index
  - cluster_*: cross-instance bridge publishes, receipts and breaker state

All instruments are registered on the default registry through promauto at
package init. Record* helpers keep label handling in one place so callers never
build label values themselves.
*/
package metrics
