// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package realtime implements the websocket event protocol.

Inbound frames are JSON objects tagged by "type" and decode into one Event
implementation per type. The Dispatcher owns a handler table keyed by
EventType; each handler works against the entity store, the presence index
and the websocket Broadcaster and returns an error that becomes an "error"
reply. The connection always stays open after a failed event.

Inbound events:

	{"type":"init","userId":1}
	{"type":"chat","rideId":7,"senderId":1,"content":"hi"}
	{"type":"location_update","latitude":40.0,"longitude":-74.0}
	{"type":"ping"}
	{"type":"get_nearby_users"}

Every reply and broadcast carries a "timestamp" in RFC 3339 with
millisecond precision, in UTC.

Presence keeps the last known location of identified users in a geo.Grid
so get_nearby_users does not scan the store.

ClusterBridge optionally relays chat and location broadcasts between
instances over NATS. Each instance tags what it publishes with a random
origin id and ignores its own messages.
*/
package realtime
