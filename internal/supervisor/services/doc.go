// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package services adapts ridematch components to suture.Service.

HTTPServerService translates http.Server's ListenAndServe and Shutdown into
a context-driven Serve with a bounded graceful shutdown.

ConnectionDrainService closes every open websocket connection when the tree
stops. Hijacked connections are invisible to http.Server.Shutdown, so
without it clients would only notice on their next write.

EmbeddedServerService ties an already started in-process NATS server to the
tree's lifetime and shuts it down on cancellation.

The websocket.LivenessMonitor and realtime.ClusterBridge implement
suture.Service themselves and are added to the tree directly.
*/
package services
