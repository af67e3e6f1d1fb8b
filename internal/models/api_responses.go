// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package models

import "time"

// APIResponse is the envelope written for HTTP errors and non-collection results.
//
// Collection endpoints such as GET /api/rides/nearby write a bare JSON array;
// errors always use this envelope:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "location is required"},
//	  "metadata": {"timestamp": "2026-01-02T15:04:05Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by GET /api/health.
type HealthStatus struct {
	Status      string          `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     string          `json:"version,omitempty"`
	Uptime      float64         `json:"uptime_seconds"`
	Storage     string          `json:"storage"`
	Connections ConnectionStats `json:"connections"`
	Cluster     *ClusterStatus  `json:"cluster,omitempty"`
}

// ConnectionStats summarizes realtime sessions as seen by the liveness monitor.
type ConnectionStats struct {
	Open            int       `json:"open"`
	Identified      int       `json:"identified"`
	TerminatedTotal uint64    `json:"terminated_total"`
	Ticks           uint64    `json:"ticks"`
	LastTick        time.Time `json:"last_tick,omitempty"`
	IntervalSeconds float64   `json:"interval_seconds"`
}

// ClusterStatus reports the state of the cross-instance bridge.
type ClusterStatus struct {
	Connected    bool   `json:"connected"`
	BreakerState string `json:"breaker_state"`
}
