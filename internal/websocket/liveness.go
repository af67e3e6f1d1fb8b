// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package websocket

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/metrics"
)

// DefaultLivenessInterval is the heartbeat period when none is configured.
const DefaultLivenessInterval = 30 * time.Second

// DefaultPingConcurrency bounds the heartbeat pings in flight during a tick.
const DefaultPingConcurrency = 32

// TickReport summarizes one heartbeat tick.
type TickReport struct {
	Probed        int      `json:"probed"`
	Terminated    []Handle `json:"terminated,omitempty"`
	ProbeFailures int      `json:"probe_failures"`
}

// LivenessStats is the monitor's view of connection health.
type LivenessStats struct {
	Open            int
	Identified      int
	TerminatedTotal int64
	Ticks           int64
	LastTick        time.Time
	Interval        time.Duration
}

// LivenessMonitor terminates connections that miss a heartbeat.
//
// On every tick a connection still flagged not-alive is terminated; every
// other connection is flagged not-alive and pinged. A pong (or any other
// MarkAlive call) before the next tick keeps it open, so a silent
// connection survives exactly one tick.
//
// Pings run on up to DefaultPingConcurrency goroutines, so a stalled peer
// holds one worker for at most its transport's ping deadline.
type LivenessMonitor struct {
	registry    *Registry
	interval    time.Duration
	concurrency int

	mu              sync.Mutex
	ticks           int64
	terminatedTotal int64
	lastTick        time.Time
}

// NewLivenessMonitor returns a monitor over registry. A non-positive
// interval selects DefaultLivenessInterval.
func NewLivenessMonitor(registry *Registry, interval time.Duration) *LivenessMonitor {
	if interval <= 0 {
		interval = DefaultLivenessInterval
	}
	return &LivenessMonitor{registry: registry, interval: interval, concurrency: DefaultPingConcurrency}
}

// SetPingConcurrency changes how many pings a tick runs at once. Values
// below one are treated as one. Call before Serve.
func (m *LivenessMonitor) SetPingConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	m.concurrency = n
}

// Interval returns the tick period.
func (m *LivenessMonitor) Interval() time.Duration {
	return m.interval
}

// Tick runs one heartbeat pass over a snapshot of open connections.
// Terminations happen in handle order; pings are then sent concurrently and
// Tick returns once every ping has completed or failed.
func (m *LivenessMonitor) Tick() TickReport {
	start := time.Now()
	var report TickReport
	var targets []*Connection

	m.registry.ForEach(func(c *Connection) {
		if m.sweep(c, &report) {
			targets = append(targets, c)
		}
	})
	report.ProbeFailures += m.pingAll(targets)

	m.mu.Lock()
	m.ticks++
	m.terminatedTotal += int64(len(report.Terminated))
	m.lastTick = start
	m.mu.Unlock()

	metrics.RecordLivenessTick(len(report.Terminated), report.ProbeFailures, time.Since(start))
	if len(report.Terminated) > 0 || report.ProbeFailures > 0 {
		logging.Info().
			Int("probed", report.Probed).
			Int("terminated", len(report.Terminated)).
			Int("probe_failures", report.ProbeFailures).
			Msg("liveness tick")
	}
	return report
}

// sweep terminates c if it missed the previous heartbeat. Otherwise it flags
// c not-alive and reports that c should be pinged.
func (m *LivenessMonitor) sweep(c *Connection, report *TickReport) (ping bool) {
	defer func() {
		if r := recover(); r != nil {
			report.ProbeFailures++
			ping = false
			logging.Error().Uint64("conn_id", uint64(c.handle)).Interface("panic", r).Msg("liveness sweep panicked")
		}
	}()

	if !c.Alive() {
		if m.registry.Remove(c.handle) {
			report.Terminated = append(report.Terminated, c.handle)
			userID, _ := c.UserID()
			logging.Info().Uint64("conn_id", uint64(c.handle)).Int64("user_id", userID).Msg("terminated unresponsive websocket connection")
		}
		return false
	}

	m.registry.beginProbe(c)
	report.Probed++
	return true
}

// pingAll pings conns with at most m.concurrency in flight and returns the
// number of pings that failed.
func (m *LivenessMonitor) pingAll(conns []*Connection) int {
	var failures atomic.Int64
	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for _, c := range conns {
		g.Go(func() error {
			if !m.ping(c) {
				failures.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return an error
	return int(failures.Load())
}

// ping sends one heartbeat. A panicking transport counts as a failed ping.
func (m *LivenessMonitor) ping(c *Connection) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			logging.Error().Uint64("conn_id", uint64(c.handle)).Interface("panic", r).Msg("liveness ping panicked")
		}
	}()

	if err := c.transport.Ping(); err != nil {
		logging.Debug().Err(err).Uint64("conn_id", uint64(c.handle)).Msg("liveness ping failed")
		return false
	}
	return true
}

// Stats returns current connection health.
func (m *LivenessMonitor) Stats() LivenessStats {
	open, identified := 0, 0
	m.registry.ForEach(func(c *Connection) {
		open++
		if _, ok := c.UserID(); ok {
			identified++
		}
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	return LivenessStats{
		Open:            open,
		Identified:      identified,
		TerminatedTotal: m.terminatedTotal,
		Ticks:           m.ticks,
		LastTick:        m.lastTick,
		Interval:        m.interval,
	}
}

// Serve ticks until ctx is done. It implements suture.Service.
func (m *LivenessMonitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", m.interval).Msg("liveness monitor started")
	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("liveness monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.Tick()
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (m *LivenessMonitor) String() string {
	return fmt.Sprintf("liveness-monitor(%s)", m.interval)
}
