// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package models

import "errors"

var (
	// ErrNotFound is returned when the requested user, ride or conversation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for malformed input such as non-finite
	// coordinates or an illegal ride status transition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict is returned when a create would violate a uniqueness rule.
	ErrConflict = errors.New("conflict")
)
