// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package api exposes the HTTP surface of ridematch on a chi router.

Endpoints:

	GET   /api/health                 health plus liveness and cluster status
	GET   /api/health/live            process liveness probe
	GET   /api/ws                     websocket upgrade into the realtime dispatcher
	GET   /api/rides/nearby           active rides whose route starts near a point
	POST  /api/rides/match            active rides whose route overlaps a route
	POST  /api/rides                  create a ride
	GET   /api/rides/{id}             fetch a ride
	PATCH /api/rides/{id}/status      move a ride through its lifecycle
	GET   /api/rides/{id}/messages    chat history for a ride
	POST  /api/users                  create a user (bcrypt password hash)
	GET   /api/users/{id}             fetch a user
	GET   /metrics                    Prometheus exposition

Collection endpoints write a bare JSON array. Single resources use the
models.APIResponse envelope, and every error is written as that envelope with
status "error". Store errors map to status codes with errors.Is:
models.ErrNotFound is 404, models.ErrInvalidArgument is 400,
models.ErrConflict is 409 and anything else is 500.

Radii are in degrees, the same unit the proximity engine uses. A request that
omits one gets matching.radius_degrees from the configuration.
*/
package api
