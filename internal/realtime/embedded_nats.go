// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedNATS is an in-process NATS server for single-host clusters and tests.
type EmbeddedNATS struct {
	server *server.Server
}

// StartEmbeddedNATS starts a NATS server on host:port. Port -1 picks a
// random free port.
func StartEmbeddedNATS(host string, port int) (*EmbeddedNATS, error) {
	opts := &server.Options{
		ServerName: "ridematch-relay",
		Host:       host,
		Port:       port,
		NoSigs:     true,
		NoLog:      true,
		MaxPayload: 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("NATS server not ready within timeout")
	}
	return &EmbeddedNATS{server: ns}, nil
}

// ClientURL returns the URL clients connect to.
func (e *EmbeddedNATS) ClientURL() string {
	return e.server.ClientURL()
}

// Running reports whether the server accepts connections.
func (e *EmbeddedNATS) Running() bool {
	return e.server.Running()
}

// Shutdown stops the server and waits for it to exit.
func (e *EmbeddedNATS) Shutdown() {
	e.server.Shutdown()
	e.server.WaitForShutdown()
}
