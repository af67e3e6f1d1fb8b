// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package websocket manages realtime client sessions.

It owns three pieces:

  - Registry: the set of open connections keyed by Handle, each with a
    lifecycle state (Connecting, Open, Closing, Closed), an optional bound
    user and an alive flag.
  - Broadcaster: fan-out of chat and location events. Chat recipients are
    chosen by a RecipientPolicy (AllConnections or RideParticipants).
    Location updates go to every identified connection except the sender.
  - LivenessMonitor: a heartbeat that pings every connection once per tick
    and terminates those that did not answer the previous ping.

Client adapts a gorilla/websocket connection to the Transport interface the
registry works with. Each Client has one read goroutine (ReadLoop) and one
write goroutine (WritePump); outbound messages pass through a bounded queue
so a slow peer cannot stall a broadcast. A full queue is a delivery failure.

Iteration over the registry works on a snapshot sorted by handle, so
callbacks may remove connections, including the one being visited.
*/
package websocket
