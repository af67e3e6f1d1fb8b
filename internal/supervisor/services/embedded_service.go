// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"
)

// ErrEmbeddedServerStopped is returned when the wrapped server is not running
// at start. The server cannot be restarted in place.
var ErrEmbeddedServerStopped = errors.New("embedded server is not running")

// EmbeddedServer is satisfied by *realtime.EmbeddedNATS.
type EmbeddedServer interface {
	Running() bool
	Shutdown()
}

// EmbeddedServerService owns the shutdown of a server started before the tree.
type EmbeddedServerService struct {
	server EmbeddedServer
	name   string
}

// NewEmbeddedServerService wraps an already started server.
func NewEmbeddedServerService(server EmbeddedServer) *EmbeddedServerService {
	return &EmbeddedServerService{
		server: server,
		name:   "embedded-nats",
	}
}

// Serve implements suture.Service. It blocks until ctx is canceled and then
// shuts the server down.
func (e *EmbeddedServerService) Serve(ctx context.Context) error {
	if !e.server.Running() {
		return errors.Join(ErrEmbeddedServerStopped, suture.ErrDoNotRestart)
	}
	<-ctx.Done()
	e.server.Shutdown()
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (e *EmbeddedServerService) String() string {
	return e.name
}
