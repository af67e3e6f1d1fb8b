// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/ridematch/internal/models"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/rides/nearby", "200"))
	RecordAPIRequest("GET", "/api/rides/nearby", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/rides/nearby", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordMatchQuery(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"success", nil, "ok"},
		{"invalid argument", fmt.Errorf("bad lat: %w", models.ErrInvalidArgument), "invalid"},
		{"store failure", errors.New("disk gone"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MatchQueries.WithLabelValues("nearby", tt.outcome)
			before := testutil.ToFloat64(c)
			RecordMatchQuery("nearby", 2, time.Millisecond, tt.err)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("matcher_queries_total{outcome=%s} delta = %v, want 1", tt.outcome, got)
			}
		})
	}
}

func TestRecordWSCounters(t *testing.T) {
	sent := WSMessagesSent.WithLabelValues("chat")
	before := testutil.ToFloat64(sent)
	RecordWSSent("chat", 3)
	RecordWSSent("chat", 0)
	if got := testutil.ToFloat64(sent) - before; got != 3 {
		t.Errorf("websocket_messages_sent_total delta = %v, want 3", got)
	}

	failures := WSDeliveryFailures.WithLabelValues("chat")
	before = testutil.ToFloat64(failures)
	RecordDeliveryFailures("chat", 1)
	if got := testutil.ToFloat64(failures) - before; got != 1 {
		t.Errorf("websocket_delivery_failures_total delta = %v, want 1", got)
	}

	recv := WSMessagesReceived.WithLabelValues("ping")
	before = testutil.ToFloat64(recv)
	RecordWSReceived("ping")
	if got := testutil.ToFloat64(recv) - before; got != 1 {
		t.Errorf("websocket_messages_received_total delta = %v, want 1", got)
	}
}

func TestRecordLivenessTick(t *testing.T) {
	ticks := testutil.ToFloat64(LivenessTicks)
	terminated := testutil.ToFloat64(LivenessTerminations)

	RecordLivenessTick(2, 1, time.Millisecond)

	if got := testutil.ToFloat64(LivenessTicks) - ticks; got != 1 {
		t.Errorf("liveness_ticks_total delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(LivenessTerminations) - terminated; got != 2 {
		t.Errorf("liveness_terminations_total delta = %v, want 2", got)
	}
}

func TestRecordClusterPublish(t *testing.T) {
	ok := ClusterPublished.WithLabelValues("location")
	failed := ClusterPublishErrors.WithLabelValues("location")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordClusterPublish("location", nil)
	RecordClusterPublish("location", errors.New("breaker open"))

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Errorf("published delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(failed) - failedBefore; got != 1 {
		t.Errorf("publish errors delta = %v, want 1", got)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordMatchQuery("route", 0, time.Millisecond, nil)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint failed: %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
