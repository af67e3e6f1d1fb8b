// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"context"
	"time"

	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/metrics"
	"github.com/tomtom215/ridematch/internal/websocket"
)

// PresenceSweeper drops presence entries that went stale without a local
// disconnect: users relayed from other instances, and users seeded at
// startup who never reconnected.
type PresenceSweeper struct {
	presence *Presence
	registry *websocket.Registry
	ttl      time.Duration
	interval time.Duration
}

// NewPresenceSweeper sweeps every ttl/2, dropping entries older than ttl.
func NewPresenceSweeper(presence *Presence, registry *websocket.Registry, ttl time.Duration) *PresenceSweeper {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	return &PresenceSweeper{
		presence: presence,
		registry: registry,
		ttl:      ttl,
		interval: interval,
	}
}

// Sweep runs one pass and returns how many entries were dropped. Users with
// an open local connection are kept however old their last update is.
func (s *PresenceSweeper) Sweep() int {
	n := s.presence.Prune(s.ttl, func(userID int64) bool {
		return s.registry.HasUser(userID, websocket.NoSender)
	})
	if n > 0 {
		metrics.PresencePruned.Add(float64(n))
		logging.Debug().Int("pruned", n).Int("tracked", s.presence.Len()).Msg("presence sweep")
	}
	return n
}

// Serve sweeps until ctx is done. It implements suture.Service.
func (s *PresenceSweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *PresenceSweeper) String() string {
	return "presence-sweeper"
}
