// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package websocket

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// A silent connection survives one tick and is terminated on the next.
func TestLiveness_SilentConnectionTerminatedOnSecondTick(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	silent := &fakeTransport{}
	c := r.Register(silent)
	m := NewLivenessMonitor(r, time.Second)

	first := m.Tick()
	if len(first.Terminated) != 0 || first.Probed != 1 {
		t.Fatalf("first tick = %+v, want one probe and no termination", first)
	}
	if _, ok := r.Get(c.Handle()); !ok {
		t.Fatal("connection removed after first tick")
	}

	second := m.Tick()
	if len(second.Terminated) != 1 || second.Terminated[0] != c.Handle() {
		t.Fatalf("second tick = %+v, want termination of %d", second, c.Handle())
	}
	if _, ok := r.Get(c.Handle()); ok {
		t.Error("connection still registered after termination")
	}
	if silent.closeCount() != 1 {
		t.Errorf("transport closed %d times", silent.closeCount())
	}
}

func TestLiveness_ResponsiveConnectionSurvives(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	ft := &fakeTransport{}
	c := r.Register(ft)
	ft.onPing = func() { r.MarkAlive(c.Handle()) }
	m := NewLivenessMonitor(r, time.Second)

	for i := 0; i < 10; i++ {
		if rep := m.Tick(); len(rep.Terminated) != 0 {
			t.Fatalf("tick %d terminated %v", i, rep.Terminated)
		}
	}
	if ft.pingCount() != 10 {
		t.Errorf("pings = %d, want 10", ft.pingCount())
	}
	if c.State() != StateOpen {
		t.Errorf("state = %s", c.State())
	}
}

func TestLiveness_ProbeFailureDoesNotStopTick(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	failing := &fakeTransport{pingErr: errors.New("write: broken pipe")}
	healthy := &fakeTransport{}
	r.Register(failing)
	r.Register(healthy)

	rep := NewLivenessMonitor(r, time.Second).Tick()
	if rep.Probed != 2 || rep.ProbeFailures != 1 {
		t.Errorf("report = %+v, want 2 probed and 1 failure", rep)
	}
	if healthy.pingCount() != 1 {
		t.Error("healthy connection was not pinged")
	}
}

func TestLiveness_PanicContained(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	panicky := &fakeTransport{onPing: func() { panic("bad transport") }}
	healthy := &fakeTransport{}
	r.Register(panicky)
	r.Register(healthy)

	rep := NewLivenessMonitor(r, time.Second).Tick()
	if rep.ProbeFailures != 1 {
		t.Errorf("ProbeFailures = %d, want 1", rep.ProbeFailures)
	}
	if healthy.pingCount() != 1 {
		t.Error("tick stopped before the healthy connection")
	}
}

// Slow peers are pinged concurrently, so a tick takes about one ping
// deadline rather than the sum of them.
func TestLiveness_SlowPingsRunConcurrently(t *testing.T) {
	t.Parallel()
	const conns = 8
	const delay = 200 * time.Millisecond

	r := NewRegistry()
	slow := make([]*fakeTransport, conns)
	for i := range slow {
		slow[i] = &fakeTransport{
			pingErr: errors.New("i/o timeout"),
			onPing:  func() { time.Sleep(delay) },
		}
		r.Register(slow[i])
	}
	m := NewLivenessMonitor(r, time.Second)

	start := time.Now()
	rep := m.Tick()
	elapsed := time.Since(start)

	if rep.Probed != conns || rep.ProbeFailures != conns {
		t.Errorf("report = %+v, want %d pinged and %d failures", rep, conns, conns)
	}
	if elapsed >= conns*delay/2 {
		t.Errorf("tick took %v, pings were not concurrent", elapsed)
	}
	for i, ft := range slow {
		if ft.pingCount() != 1 {
			t.Errorf("connection %d pinged %d times", i, ft.pingCount())
		}
	}
}

func TestLiveness_PingConcurrencyLimit(t *testing.T) {
	t.Parallel()
	const limit = 2

	r := NewRegistry()
	var inFlight, peak atomic.Int32
	for i := 0; i < 6; i++ {
		r.Register(&fakeTransport{onPing: func() {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
		}})
	}
	m := NewLivenessMonitor(r, time.Second)
	m.SetPingConcurrency(limit)

	if rep := m.Tick(); rep.Probed != 6 || rep.ProbeFailures != 0 {
		t.Fatalf("report = %+v, want 6 pinged", rep)
	}
	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrent pings = %d, want at most %d", got, limit)
	}
}

func TestLiveness_Stats(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	a := r.Register(&fakeTransport{})
	r.Register(&fakeTransport{})
	_ = r.SetUser(a.Handle(), 1)

	m := NewLivenessMonitor(r, 0)
	if m.Interval() != DefaultLivenessInterval {
		t.Errorf("Interval() = %v, want default", m.Interval())
	}
	m.Tick()
	m.Tick()

	s := m.Stats()
	if s.Ticks != 2 || s.TerminatedTotal != 2 || s.Open != 0 || s.LastTick.IsZero() {
		t.Errorf("stats = %+v", s)
	}

	b := r.Register(&fakeTransport{})
	_ = r.SetUser(b.Handle(), 2)
	s = m.Stats()
	if s.Open != 1 || s.Identified != 1 {
		t.Errorf("stats after register = %+v", s)
	}
}

func TestLiveness_Serve(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	ft := &fakeTransport{}
	r.Register(ft)
	m := NewLivenessMonitor(r, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for m.Stats().Ticks < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}
	if r.Count() != 0 {
		t.Errorf("silent connection survived %d ticks", m.Stats().Ticks)
	}
	if m.String() == "" {
		t.Error("String() is empty")
	}
}
