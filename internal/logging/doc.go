// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

// Package logging provides the zerolog-based structured logger shared by every
// Ridematch component.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Error().Err(err).Int64("ride_id", id).Msg("Failed to persist message")
//
//	// Request-scoped fields (request_id, correlation_id)
//	logging.Ctx(ctx).Warn().Msg("Rejected nearby query")
//
// # Realtime Fields
//
// Realtime code logs with a fixed set of field names so that a single session
// can be followed through the logs:
//
//	conn_id     registry handle of the connection
//	user_id     user bound by the init event
//	event_type  inbound event type
//
// ConnLogger builds a child logger carrying conn_id (and user_id once known).
//
// # slog Adapter
//
// Suture reports supervisor events through log/slog. NewSlogLogger returns an
// slog.Logger whose records are written by zerolog:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Output Formats
//
// JSON (default):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"Liveness tick","probed":12}
//
// Console:
//
//	10:30:00 INF Liveness tick probed=12
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger is
// guarded by a sync.RWMutex so Init may reconfigure it at any time.
package logging
