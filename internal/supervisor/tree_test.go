// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/tomtom215/ridematch/internal/logging"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// waitStarts polls until svc has started at least n times.
func waitStarts(t *testing.T, svc *mockService, n int32) {
	t.Helper()
	deadline := time.After(time.Second)
	for svc.starts.Load() < n {
		select {
		case <-deadline:
			t.Fatalf("%s started %d times, want >= %d", svc.name, svc.starts.Load(), n)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}
	if got, want := tree.Config(), DefaultTreeConfig(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}

	custom := TreeConfig{FailureThreshold: 2, FailureBackoff: time.Second}
	tree, _ = NewSupervisorTree(quietLogger(), custom)
	got := tree.Config()
	if got.FailureThreshold != 2 || got.FailureBackoff != time.Second {
		t.Errorf("explicit values overwritten: %+v", got)
	}
	if got.FailureDecay != 30 || got.ShutdownTimeout != 10*time.Second {
		t.Errorf("zero values not defaulted: %+v", got)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	tree, _ := NewSupervisorTree(logging.NewSlogLogger(), TreeConfig{ShutdownTimeout: time.Second})

	infra := newMockService("embedded-nats")
	rt := newMockService("liveness-monitor")
	api := newMockService("http-server")
	tree.AddInfraService(infra)
	tree.AddRealtimeService(rt)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	for _, svc := range []*mockService{infra, rt, api} {
		waitStarts(t, svc, 1)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down")
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	flaky := newMockService("cluster-bridge")
	flaky.failFirst = 2
	stable := newMockService("http-server")
	tree.AddRealtimeService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := tree.ServeBackground(ctx)

	waitStarts(t, flaky, 3)
	if n := stable.starts.Load(); n != 1 {
		t.Errorf("api service started %d times, want 1", n)
	}

	cancel()
	<-done
}

func TestSupervisorTree_RemoveRealtimeService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	svc := newMockService("liveness-monitor")
	token := tree.AddRealtimeService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := tree.ServeBackground(ctx)
	waitStarts(t, svc, 1)

	if err := tree.RemoveRealtimeService(token); err != nil {
		t.Fatalf("RemoveRealtimeService: %v", err)
	}

	cancel()
	<-done
	if n := svc.starts.Load(); n != 1 {
		t.Errorf("removed service started %d times, want 1", n)
	}
}
