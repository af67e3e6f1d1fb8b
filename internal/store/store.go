// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package store is the entity store for users, rides and chat messages.

Two backends implement Storage:

  - Memory: in-process maps keyed by id with monotonic id counters. Each record
    carries its own mutex, so mutations on different ids never contend beyond
    a short map lookup.
  - Badger: the same contract persisted in BadgerDB with JSON values and
    sequence-allocated ids.

All methods return copies. Mutating a returned value never changes stored state.
Missing ids yield models.ErrNotFound, malformed input models.ErrInvalidArgument,
and a duplicate email models.ErrConflict.
*/
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/ridematch/internal/models"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Storage is the contract shared by every entity store backend.
type Storage interface {
	CreateUser(ctx context.Context, p models.CreateUserParams) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUserLocation(ctx context.Context, id int64, loc models.Location) (models.User, error)
	SetUserActive(ctx context.Context, id int64, active bool) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateRide(ctx context.Context, p models.CreateRideParams) (models.Ride, error)
	GetRide(ctx context.Context, id int64) (models.Ride, error)
	UpdateRideStatus(ctx context.Context, id int64, status models.RideStatus) (models.Ride, error)
	// ListActiveRides returns rides with status active, filtered by type
	// unless rideType is empty, ordered by id.
	ListActiveRides(ctx context.Context, rideType models.RideType) ([]models.Ride, error)

	CreateMessage(ctx context.Context, p models.CreateMessageParams) (models.Message, error)
	// ListMessages returns a conversation ordered by CreatedAt, then ID.
	ListMessages(ctx context.Context, rideMatchID int64) ([]models.Message, error)

	Close() error
}

// Open returns the backend named by backend. path is used by the badger
// backend only; an empty path opens badger in memory.
func Open(backend, path string) (Storage, error) {
	switch strings.ToLower(backend) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendBadger:
		return OpenBadger(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q: %w", backend, models.ErrInvalidArgument)
	}
}

func validateUser(p models.CreateUserParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("user name is required: %w", models.ErrInvalidArgument)
	}
	if models.NormalizeEmail(p.Email) == "" {
		return fmt.Errorf("user email is required: %w", models.ErrInvalidArgument)
	}
	return nil
}

func validateLocation(loc models.Location) error {
	if !loc.Valid() {
		return fmt.Errorf("location must have finite lat/lng: %w", models.ErrInvalidArgument)
	}
	return nil
}

// rideStatusOrDefault validates p and returns the initial status.
func rideStatusOrDefault(p models.CreateRideParams) (models.RideStatus, error) {
	if !p.Type.Valid() {
		return "", fmt.Errorf("ride type %q: %w", p.Type, models.ErrInvalidArgument)
	}
	if !p.Route.Valid() {
		return "", fmt.Errorf("ride route must have finite coordinates: %w", models.ErrInvalidArgument)
	}
	if p.AvailableSeats < 0 {
		return "", fmt.Errorf("available seats must not be negative: %w", models.ErrInvalidArgument)
	}
	if p.Status == "" {
		return models.RideStatusActive, nil
	}
	if !p.Status.Valid() {
		return "", fmt.Errorf("ride status %q: %w", p.Status, models.ErrInvalidArgument)
	}
	return p.Status, nil
}

func checkTransition(id int64, from, to models.RideStatus) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("ride %d cannot move from %s to %s: %w", id, from, to, models.ErrInvalidArgument)
	}
	return nil
}

func validateMessage(p models.CreateMessageParams) error {
	if p.RideMatchID <= 0 {
		return fmt.Errorf("ride id is required: %w", models.ErrInvalidArgument)
	}
	if p.SenderID <= 0 {
		return fmt.Errorf("sender id is required: %w", models.ErrInvalidArgument)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("message content is required: %w", models.ErrInvalidArgument)
	}
	return nil
}
