// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"context"
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/ridematch/internal/config"
	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/matcher"
	"github.com/tomtom215/ridematch/internal/models"
	"github.com/tomtom215/ridematch/internal/realtime"
	"github.com/tomtom215/ridematch/internal/store"
	"github.com/tomtom215/ridematch/internal/websocket"
)

// ClusterStatusProvider reports the state of the cross-instance bridge.
type ClusterStatusProvider interface {
	Status() models.ClusterStatus
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket upgrade
//   - handlers_helpers.go: response and request helpers
//   - handlers_health.go: health endpoints
//   - handlers_rides.go: matching and ride endpoints
//   - handlers_users.go: user endpoints
type Handler struct {
	config     *config.Config
	store      store.Storage
	matcher    *matcher.Matcher
	dispatcher *realtime.Dispatcher
	liveness   *websocket.LivenessMonitor
	cluster    ClusterStatusProvider
	startTime  time.Time
}

// NewHandler creates a new API handler. dispatcher and liveness may be nil
// in tests that exercise only the HTTP endpoints.
func NewHandler(cfg *config.Config, st store.Storage, m *matcher.Matcher, dispatcher *realtime.Dispatcher, liveness *websocket.LivenessMonitor) *Handler {
	return &Handler{
		config:     cfg,
		store:      st,
		matcher:    m,
		dispatcher: dispatcher,
		liveness:   liveness,
		startTime:  time.Now(),
	}
}

// SetCluster attaches the bridge whose status /api/health reports.
// Call once during startup, before serving.
func (h *Handler) SetCluster(c ClusterStatusProvider) {
	h.cluster = c
}

// getUpgrader creates a WebSocket upgrader with origin checking and a handshake timeout.
func (h *Handler) getUpgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Requests
// without an Origin header come from native mobile clients and are accepted.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

func (h *Handler) clientConfig() websocket.ClientConfig {
	if h.config == nil {
		return websocket.DefaultClientConfig()
	}
	rt := h.config.Realtime
	return websocket.ClientConfig{
		WriteWait:         rt.WriteWait,
		MaxMessageSize:    rt.MaxMessageSize,
		SendBuffer:        rt.SendBuffer,
		MessagesPerSecond: rt.MessagesPerSecond,
		Burst:             rt.MessageBurst,
	}
}

// WebSocket upgrades the request and hands the connection to the realtime
// dispatcher. The session outlives the request, so it runs on a context that
// keeps the request's values but not its cancellation.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternalError, "realtime is not available", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := websocket.NewClient(conn, h.clientConfig())
	go h.dispatcher.Serve(context.WithoutCancel(r.Context()), client)
}
