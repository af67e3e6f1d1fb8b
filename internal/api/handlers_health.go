// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/ridematch/internal/models"
	"github.com/tomtom215/ridematch/internal/store"
)

// Version is reported by /api/health. Overridden at build time with -ldflags.
var Version = "dev"

// Health reports process status, realtime connection statistics and, when a
// cluster bridge is configured, its connection and breaker state. The status is
// "degraded" while an enabled bridge is disconnected or its breaker is open.
//
// @Summary Get system health status
// @Description Returns process status, realtime connection statistics and cluster bridge state.
// @Tags Core
// @Produce json
// @Success 200 {object} models.HealthStatus "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	health := models.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Storage:   store.BackendMemory,
	}
	if h.config != nil && h.config.Storage.Backend != "" {
		health.Storage = h.config.Storage.Backend
	}

	if h.liveness != nil {
		stats := h.liveness.Stats()
		health.Connections = models.ConnectionStats{
			Open:            stats.Open,
			Identified:      stats.Identified,
			TerminatedTotal: uint64(stats.TerminatedTotal),
			Ticks:           uint64(stats.Ticks),
			LastTick:        stats.LastTick,
			IntervalSeconds: stats.Interval.Seconds(),
		}
	}

	if h.cluster != nil {
		status := h.cluster.Status()
		health.Cluster = &status
		if !status.Connected || status.BreakerState == "open" {
			health.Status = "degraded"
		}
	}

	respondJSON(w, http.StatusOK, health)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Liveness check
// @Description Kubernetes liveness check, returns 200 if the process is alive
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]interface{} "Process is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "alive",
		"timestamp":      time.Now().UTC(),
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}
