// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package models

import "time"

// RideType distinguishes a driver's offer from a passenger's request.
type RideType string

const (
	RideTypeOffer   RideType = "offer"
	RideTypeRequest RideType = "request"
)

// Valid reports whether t is a known ride type.
func (t RideType) Valid() bool {
	return t == RideTypeOffer || t == RideTypeRequest
}

// RideStatus is the lifecycle state of a ride.
type RideStatus string

const (
	RideStatusActive     RideStatus = "active"
	RideStatusMatched    RideStatus = "matched"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// rideTransitions lists the statuses reachable from each status.
// Completed and cancelled are terminal.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusActive:     {RideStatusMatched, RideStatusCancelled},
	RideStatusMatched:    {RideStatusInProgress, RideStatusCancelled, RideStatusActive},
	RideStatusInProgress: {RideStatusCompleted, RideStatusCancelled},
	RideStatusCompleted:  nil,
	RideStatusCancelled:  nil,
}

// Valid reports whether s is a known ride status.
func (s RideStatus) Valid() bool {
	_, ok := rideTransitions[s]
	return ok
}

// Terminal reports whether no further transition is possible from s.
func (s RideStatus) Terminal() bool {
	return s.Valid() && len(rideTransitions[s]) == 0
}

// CanTransition reports whether a ride may move from s to next.
// Setting the current status again is always allowed and is a no-op.
func (s RideStatus) CanTransition(next RideStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range rideTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Ride is an offer or request. Only rides with status active take part in matching.
type Ride struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	Type           RideType   `json:"type"`
	Status         RideStatus `json:"status"`
	Route          Route      `json:"route"`
	VehicleType    string     `json:"vehicleType,omitempty"`
	IsPooling      bool       `json:"isPooling"`
	AvailableSeats int        `json:"availableSeats"`
	Price          float64    `json:"price"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Clone returns a copy of r that shares no slices with it.
func (r Ride) Clone() Ride {
	out := r
	out.Route = r.Route.Clone()
	return out
}

// CreateRideParams carries the fields a caller supplies when submitting a ride.
// An empty Status defaults to active.
type CreateRideParams struct {
	UserID         int64
	Type           RideType
	Status         RideStatus
	Route          Route
	VehicleType    string
	IsPooling      bool
	AvailableSeats int
	Price          float64
}
