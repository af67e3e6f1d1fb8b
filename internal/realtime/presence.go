// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/ridematch/internal/geo"
	"github.com/tomtom215/ridematch/internal/metrics"
	"github.com/tomtom215/ridematch/internal/models"
)

// UserLister is the store subset Presence loads from.
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Presence indexes the last known location of each user.
type Presence struct {
	grid *geo.Grid
	now  func() time.Time
}

// NewPresence returns an empty index with the given grid cell size in degrees.
func NewPresence(cellSize float64) *Presence {
	return &Presence{grid: geo.NewGrid(cellSize), now: time.Now}
}

// Update records loc for userID. Non-finite locations are ignored.
func (p *Presence) Update(userID int64, loc models.Location) bool {
	ok := p.grid.Upsert(userID, loc, p.now())
	metrics.PresenceTrackedUsers.Set(float64(p.grid.Len()))
	return ok
}

// Remove forgets userID.
func (p *Presence) Remove(userID int64) {
	p.grid.Remove(userID)
	metrics.PresenceTrackedUsers.Set(float64(p.grid.Len()))
}

// Location returns the last known location of userID.
func (p *Presence) Location(userID int64) (models.Location, bool) {
	e, ok := p.grid.Get(userID)
	if !ok {
		return models.Location{}, false
	}
	return e.Location, true
}

// Nearby returns users strictly closer than radius degrees to center,
// excluding userID, nearest first with ties by id.
func (p *Presence) Nearby(userID int64, center models.Location, radius float64) []geo.Neighbor {
	found := p.grid.QueryNearby(center, radius)
	out := found[:0]
	for _, n := range found {
		if n.ID != userID {
			out = append(out, n)
		}
	}
	return out
}

// Prune forgets users not updated within maxAge, except those keep reports
// as still present.
func (p *Presence) Prune(maxAge time.Duration, keep func(userID int64) bool) int {
	n := p.grid.CleanupBefore(p.now().Add(-maxAge), keep)
	metrics.PresenceTrackedUsers.Set(float64(p.grid.Len()))
	return n
}

// Len returns the number of tracked users.
func (p *Presence) Len() int {
	return p.grid.Len()
}

// Load seeds the index with every active user that has a location.
func (p *Presence) Load(ctx context.Context, users UserLister) (int, error) {
	list, err := users.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	n := 0
	for _, u := range list {
		if !u.Active || u.CurrentLocation == nil {
			continue
		}
		if p.Update(u.ID, *u.CurrentLocation) {
			n++
		}
	}
	return n, nil
}
