// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package services

import (
	"context"

	"github.com/tomtom215/ridematch/internal/logging"
)

// ConnectionCloser is satisfied by *websocket.Registry.
type ConnectionCloser interface {
	CloseAll() int
}

// ConnectionDrainService closes every registered connection when its context
// is canceled.
type ConnectionDrainService struct {
	conns ConnectionCloser
	name  string
}

// NewConnectionDrainService returns a drain service for conns.
func NewConnectionDrainService(conns ConnectionCloser) *ConnectionDrainService {
	return &ConnectionDrainService{
		conns: conns,
		name:  "connection-drain",
	}
}

// Serve implements suture.Service.
func (d *ConnectionDrainService) Serve(ctx context.Context) error {
	<-ctx.Done()
	if n := d.conns.CloseAll(); n > 0 {
		logging.Info().Int("connections", n).Msg("closed websocket connections on shutdown")
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (d *ConnectionDrainService) String() string {
	return d.name
}
