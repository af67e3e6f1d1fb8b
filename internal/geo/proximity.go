// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package geo

import (
	"math"

	"github.com/tomtom215/ridematch/internal/models"
)

const (
	// DefaultThreshold is the reference nearby radius in degrees.
	DefaultThreshold = 0.1

	// kmPerDegree is the length of one degree of latitude.
	kmPerDegree = 111.0

	earthRadiusKm = 6371.0
)

// PlanarDistance returns the Euclidean distance between a and b in degrees.
func PlanarDistance(a, b models.Location) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// IsNearby reports whether a and b are strictly closer than threshold degrees.
// Non-finite coordinates are never nearby anything.
func IsNearby(a, b models.Location, threshold float64) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	return PlanarDistance(a, b) < threshold
}

// RoutesOverlap reports whether the starts of r1 and r2 are nearby, or their ends are.
func RoutesOverlap(r1, r2 models.Route, threshold float64) bool {
	return IsNearby(r1.Start, r2.Start, threshold) || IsNearby(r1.End, r2.End, threshold)
}

// HaversineKm returns the great-circle distance between a and b in kilometers.
func HaversineKm(a, b models.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// KmToDegrees converts a ground distance at the given latitude into a degree
// threshold that covers at least km in every direction. The east-west axis is
// the binding one, so the result overshoots north-south away from the equator.
func KmToDegrees(km, lat float64) float64 {
	scale := math.Cos(lat * math.Pi / 180)
	// Clamp near the poles where a degree of longitude collapses to zero.
	if scale < 0.01 {
		scale = 0.01
	}
	return km / (kmPerDegree * scale)
}
