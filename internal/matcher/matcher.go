// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

// Package matcher selects active rides near a location or along a route.
//
// The matcher is a linear scan over the store's active rides refined by the
// predicates in internal/geo. It never mutates state. Results come back in
// store order (ascending id) unless Options.SortByDistance is set.
package matcher

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/ridematch/internal/geo"
	"github.com/tomtom215/ridematch/internal/metrics"
	"github.com/tomtom215/ridematch/internal/models"
)

// RideLister is the slice of the entity store the matcher reads from.
type RideLister interface {
	ListActiveRides(ctx context.Context, rideType models.RideType) ([]models.Ride, error)
}

// Options tune a single query.
type Options struct {
	// SortByDistance orders results by distance from the query point (or the
	// query route's start), ties broken by ride id.
	SortByDistance bool
}

// Matcher answers nearby and route-overlap queries.
type Matcher struct {
	rides            RideLister
	defaultThreshold float64
}

// New returns a matcher reading from rides. A non-positive defaultThreshold
// falls back to geo.DefaultThreshold.
func New(rides RideLister, defaultThreshold float64) *Matcher {
	if !validThreshold(defaultThreshold) {
		defaultThreshold = geo.DefaultThreshold
	}
	return &Matcher{rides: rides, defaultThreshold: defaultThreshold}
}

// DefaultThreshold returns the radius, in degrees, used when a query passes none.
func (m *Matcher) DefaultThreshold() float64 {
	return m.defaultThreshold
}

func validThreshold(th float64) bool {
	return th > 0 && !math.IsInf(th, 0)
}

func (m *Matcher) threshold(th float64) float64 {
	if validThreshold(th) {
		return th
	}
	return m.defaultThreshold
}

// FindNearbyRides returns active rides of rideType whose route starts within
// threshold degrees of loc.
func (m *Matcher) FindNearbyRides(ctx context.Context, loc models.Location, rideType models.RideType, threshold float64, opts Options) (rides []models.Ride, err error) {
	start := time.Now()
	defer func() { metrics.RecordMatchQuery("nearby", len(rides), time.Since(start), err) }()

	if !loc.Valid() {
		return nil, fmt.Errorf("location %v must have finite lat/lng: %w", loc, models.ErrInvalidArgument)
	}
	if !rideType.Valid() {
		return nil, fmt.Errorf("ride type %q: %w", rideType, models.ErrInvalidArgument)
	}
	th := m.threshold(threshold)

	candidates, err := m.rides.ListActiveRides(ctx, rideType)
	if err != nil {
		return nil, fmt.Errorf("list active %s rides: %w", rideType, err)
	}

	rides = make([]models.Ride, 0)
	for _, r := range candidates {
		if r.Status != models.RideStatusActive || r.Type != rideType {
			continue
		}
		if geo.IsNearby(loc, r.Route.Start, th) {
			rides = append(rides, r)
		}
	}

	if opts.SortByDistance {
		sortByDistance(rides, loc)
	}
	return rides, nil
}

// FindMatchingRides returns active rides whose route overlaps route: starts
// within threshold of each other, or ends within threshold of each other. An
// empty rideType matches both offers and requests.
func (m *Matcher) FindMatchingRides(ctx context.Context, route models.Route, rideType models.RideType, threshold float64, opts Options) (rides []models.Ride, err error) {
	start := time.Now()
	defer func() { metrics.RecordMatchQuery("route", len(rides), time.Since(start), err) }()

	if !route.Start.Valid() || !route.End.Valid() {
		return nil, fmt.Errorf("route endpoints must have finite lat/lng: %w", models.ErrInvalidArgument)
	}
	if rideType != "" && !rideType.Valid() {
		return nil, fmt.Errorf("ride type %q: %w", rideType, models.ErrInvalidArgument)
	}
	th := m.threshold(threshold)

	candidates, err := m.rides.ListActiveRides(ctx, rideType)
	if err != nil {
		return nil, fmt.Errorf("list active rides: %w", err)
	}

	rides = make([]models.Ride, 0)
	for _, r := range candidates {
		if r.Status != models.RideStatusActive || (rideType != "" && r.Type != rideType) {
			continue
		}
		if geo.RoutesOverlap(route, r.Route, th) {
			rides = append(rides, r)
		}
	}

	if opts.SortByDistance {
		sortByDistance(rides, route.Start)
	}
	return rides, nil
}

func sortByDistance(rides []models.Ride, from models.Location) {
	sort.SliceStable(rides, func(i, j int) bool {
		di := geo.PlanarDistance(from, rides[i].Route.Start)
		dj := geo.PlanarDistance(from, rides[j].Route.Start)
		if di != dj {
			return di < dj
		}
		return rides[i].ID < rides[j].ID
	})
}
