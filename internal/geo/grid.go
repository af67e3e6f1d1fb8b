// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package geo

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/ridematch/internal/models"
)

// DefaultCellSize is the grid cell edge in degrees used when none is given.
const DefaultCellSize = 0.1

// MaxCellReach is the largest number of cells QueryNearby walks out from the
// query cell. A threshold needing more falls back to a scan of every entry.
const MaxCellReach = 64

// Grid divides the plane into square cells of CellSize degrees so that a
// proximity query only visits the cells around the query point.
//
// Time Complexity:
//   - Upsert / Remove: O(1) amortized
//   - QueryNearby: O(k) where k = entries in the visited cells, or O(n) when
//     the threshold spans more than MaxCellReach cells or more cells than are
//     occupied
type Grid struct {
	mu       sync.RWMutex
	cells    map[cellKey]*cell
	cellSize float64
	entries  map[int64]*gridEntry
}

type cellKey struct {
	X, Y int
}

type cell struct {
	entries []*gridEntry
}

type gridEntry struct {
	id        int64
	loc       models.Location
	updatedAt time.Time
	key       cellKey
}

// Entry is a snapshot of one tracked point.
type Entry struct {
	ID        int64
	Location  models.Location
	UpdatedAt time.Time
}

// Neighbor is a query result with its planar distance from the query point.
type Neighbor struct {
	Entry
	Distance float64
}

// NewGrid creates a grid with the given cell size in degrees.
func NewGrid(cellSize float64) *Grid {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cells:    make(map[cellKey]*cell),
		cellSize: cellSize,
		entries:  make(map[int64]*gridEntry),
	}
}

// CellSize returns the cell edge in degrees.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// Longitude is not wrapped: keys follow the same planar space as IsNearby.
func (g *Grid) keyFor(loc models.Location) cellKey {
	return cellKey{
		X: int(math.Floor(loc.Lng / g.cellSize)),
		Y: int(math.Floor(loc.Lat / g.cellSize)),
	}
}

// Upsert records the location of id, replacing any previous one.
// Non-finite locations are ignored and reported as false.
func (g *Grid) Upsert(id int64, loc models.Location, at time.Time) bool {
	if !loc.Valid() {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.entries[id]; ok {
		g.removeFromCellLocked(existing)
	}

	key := g.keyFor(loc)
	e := &gridEntry{id: id, loc: loc, updatedAt: at, key: key}

	c, ok := g.cells[key]
	if !ok {
		c = &cell{entries: make([]*gridEntry, 0, 4)}
		g.cells[key] = c
	}
	c.entries = append(c.entries, e)
	g.entries[id] = e
	return true
}

// Remove drops id from the grid.
func (g *Grid) Remove(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[id]
	if !ok {
		return false
	}
	g.removeFromCellLocked(e)
	delete(g.entries, id)
	return true
}

// caller must hold g.mu.
func (g *Grid) removeFromCellLocked(e *gridEntry) {
	c, ok := g.cells[e.key]
	if !ok {
		return
	}
	for i, candidate := range c.entries {
		if candidate.id == e.id {
			c.entries[i] = c.entries[len(c.entries)-1]
			c.entries = c.entries[:len(c.entries)-1]
			break
		}
	}
	if len(c.entries) == 0 {
		delete(g.cells, e.key)
	}
}

// Get returns the tracked location of id.
func (g *Grid) Get(id int64) (Entry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.snapshot(), true
}

// QueryNearby returns every entry strictly closer than threshold degrees to
// center, ordered by distance then id.
func (g *Grid) QueryNearby(center models.Location, threshold float64) []Neighbor {
	if !center.Valid() || !(threshold > 0) || math.IsInf(threshold, 0) {
		return nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var results []Neighbor
	reach := math.Ceil(threshold / g.cellSize)
	if reach > MaxCellReach || (2*reach+1)*(2*reach+1) > float64(len(g.cells)) {
		for _, e := range g.entries {
			results = appendNearby(results, center, threshold, e)
		}
	} else {
		n := int(reach)
		origin := g.keyFor(center)
		for dx := -n; dx <= n; dx++ {
			for dy := -n; dy <= n; dy++ {
				c, ok := g.cells[cellKey{X: origin.X + dx, Y: origin.Y + dy}]
				if !ok {
					continue
				}
				for _, e := range c.entries {
					results = appendNearby(results, center, threshold, e)
				}
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func appendNearby(results []Neighbor, center models.Location, threshold float64, e *gridEntry) []Neighbor {
	if !IsNearby(center, e.loc, threshold) {
		return results
	}
	return append(results, Neighbor{
		Entry:    e.snapshot(),
		Distance: PlanarDistance(center, e.loc),
	})
}

// Len returns the number of tracked entries.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// NumCells returns the number of non-empty cells.
func (g *Grid) NumCells() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// CleanupBefore removes entries last updated before the cutoff and returns
// how many were removed. Entries for which keep returns true are left in
// place; a nil keep removes every stale entry.
func (g *Grid) CleanupBefore(cutoff time.Time, keep func(id int64) bool) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for id, e := range g.entries {
		if e.updatedAt.Before(cutoff) && (keep == nil || !keep(id)) {
			g.removeFromCellLocked(e)
			delete(g.entries, id)
			removed++
		}
	}
	return removed
}

func (e *gridEntry) snapshot() Entry {
	return Entry{ID: e.id, Location: e.loc, UpdatedAt: e.updatedAt}
}
