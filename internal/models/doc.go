// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package models defines the data structures shared by every Ridematch layer.

Key Components:

  - User: a rider or driver account, with its last known location and presence flag
  - Location and Route: value types consumed by the proximity predicates in internal/geo
  - Ride: an offer or request, eligible for matching only while its status is active
  - Message: an immutable chat line within a ride conversation
  - APIResponse / APIError: the error envelope written by the HTTP layer

Lifecycle:

Users are created inactive with no location and are never deleted. Rides are
created active and only ever move through the transition table in ride.go.
Messages are append-only.

Errors:

ErrNotFound, ErrInvalidArgument and ErrConflict are the sentinel errors returned
by stores and the matcher. Callers wrap them with fmt.Errorf("...: %w", err) and
test them with errors.Is.

Thread Safety:

Model values carry no synchronization. Stores hand out copies (see Clone) so a
caller may read or mutate a returned value without affecting stored state.
*/
package models
