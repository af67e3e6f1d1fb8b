// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

/*
Package geo implements the proximity predicates used for ride matching and
realtime presence.

Distances are planar, measured in degrees: sqrt(dlat^2 + dlng^2). A point is
"nearby" another when that distance is strictly below the caller's threshold.
The reference threshold is 0.1 degrees, roughly 11 km at the equator.

Known limitation: a degree of longitude shrinks with latitude (cos(lat)), so a
fixed degree threshold covers less ground east-west as you move away from the
equator. At 60 degrees north the 0.1 threshold spans about 5.5 km east-west.
KmToDegrees gives callers a latitude-aware calibration; HaversineKm gives the
great-circle distance for reporting.

Route overlap is deliberately coarse: two routes overlap when their starts are
nearby OR their ends are nearby. Waypoints are not considered.

Grid is a spatial hash over degree cells. It narrows candidates to the cells
around a query point and refines them with IsNearby, so its answers are the
same as a linear scan with the same threshold.
*/
package geo
