// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/ridematch/internal/models"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of open WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages queued for delivery",
		},
		[]string{"type"},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of inbound WebSocket events",
		},
		[]string{"type"},
	)

	WSDeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_delivery_failures_total",
			Help: "Total number of broadcast deliveries skipped because the socket was not writable",
		},
		[]string{"kind"},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of error replies sent to WebSocket clients",
		},
		[]string{"error_type"},
	)

	// Liveness Metrics
	LivenessTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liveness_ticks_total",
			Help: "Total number of heartbeat ticks",
		},
	)

	LivenessTerminations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liveness_terminations_total",
			Help: "Total number of connections terminated for missing a heartbeat",
		},
	)

	LivenessProbeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liveness_probe_failures_total",
			Help: "Total number of ping frames that could not be written",
		},
	)

	LivenessTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "liveness_tick_duration_seconds",
			Help:    "Time spent probing all connections in one tick",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	// Matcher Metrics
	MatchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_queries_total",
			Help: "Total number of matcher queries",
		},
		[]string{"kind", "outcome"},
	)

	MatchQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcher_query_duration_seconds",
			Help:    "Matcher query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
		[]string{"kind"},
	)

	MatchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcher_results",
			Help:    "Number of rides returned per matcher query",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"kind"},
	)

	// Presence Metrics
	PresenceTrackedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presence_tracked_users",
			Help: "Users with a known location in the nearby-users index",
		},
	)

	PresencePruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_pruned_total",
			Help: "Stale presence entries dropped by the sweeper",
		},
	)

	// Cluster Bridge Metrics
	ClusterPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cluster_messages_published_total",
			Help: "Total number of broadcasts published to other instances",
		},
		[]string{"kind"},
	)

	ClusterPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cluster_publish_errors_total",
			Help: "Total number of failed or short-circuited bridge publishes",
		},
		[]string{"kind"},
	)

	ClusterReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cluster_messages_received_total",
			Help: "Total number of broadcasts received from other instances",
		},
		[]string{"kind"},
	)

	ClusterBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cluster_breaker_state",
			Help: "Bridge circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMatchQuery records one matcher query. kind is "nearby" or "route".
func RecordMatchQuery(kind string, results int, duration time.Duration, err error) {
	MatchQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	MatchQueries.WithLabelValues(kind, outcome(err)).Inc()
	if err == nil {
		MatchResults.WithLabelValues(kind).Observe(float64(results))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrInvalidArgument):
		return "invalid"
	default:
		return "error"
	}
}

// RecordWSReceived counts an inbound event by type.
func RecordWSReceived(eventType string) {
	WSMessagesReceived.WithLabelValues(eventType).Inc()
}

// RecordWSSent counts n messages of the given type queued for delivery.
func RecordWSSent(eventType string, n int) {
	if n > 0 {
		WSMessagesSent.WithLabelValues(eventType).Add(float64(n))
	}
}

// RecordDeliveryFailures counts n failed deliveries of a broadcast kind.
func RecordDeliveryFailures(kind string, n int) {
	if n > 0 {
		WSDeliveryFailures.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordWSError counts an error reply sent to a client.
func RecordWSError(errorType string) {
	WSErrors.WithLabelValues(errorType).Inc()
}

// RecordLivenessTick records the outcome of one heartbeat tick.
func RecordLivenessTick(terminated, probeFailures int, duration time.Duration) {
	LivenessTicks.Inc()
	LivenessTerminations.Add(float64(terminated))
	LivenessProbeFailures.Add(float64(probeFailures))
	LivenessTickDuration.Observe(duration.Seconds())
}

// RecordClusterPublish records a bridge publish attempt.
func RecordClusterPublish(kind string, err error) {
	if err != nil {
		ClusterPublishErrors.WithLabelValues(kind).Inc()
		return
	}
	ClusterPublished.WithLabelValues(kind).Inc()
}

// RecordClusterReceive records a broadcast received from another instance.
func RecordClusterReceive(kind string) {
	ClusterReceived.WithLabelValues(kind).Inc()
}
