// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package models

import "math"

// Location is a latitude/longitude pair in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite numbers.
// Range is not checked; planar proximity works on any finite pair.
func (l Location) Valid() bool {
	return isFinite(l.Lat) && isFinite(l.Lng)
}

// Route is a start and end point plus optional ordered waypoints.
type Route struct {
	Start     Location   `json:"start"`
	End       Location   `json:"end"`
	Waypoints []Location `json:"waypoints"`
}

// Valid reports whether every point on the route is finite.
func (r Route) Valid() bool {
	if !r.Start.Valid() || !r.End.Valid() {
		return false
	}
	for _, wp := range r.Waypoints {
		if !wp.Valid() {
			return false
		}
	}
	return true
}

// Clone returns a copy whose waypoint slice does not alias r's.
func (r Route) Clone() Route {
	out := r
	if r.Waypoints != nil {
		out.Waypoints = make([]Location, len(r.Waypoints))
		copy(out.Waypoints, r.Waypoints)
	} else {
		out.Waypoints = []Location{}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
