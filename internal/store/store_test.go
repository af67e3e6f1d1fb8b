// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/ridematch/internal/models"
)

// forEachBackend runs fn against a fresh instance of every Storage backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, s Storage)) {
	t.Helper()

	backends := map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage { return NewMemory() },
		"badger": func(t *testing.T) Storage {
			t.Helper()
			s, err := OpenBadger("")
			if err != nil {
				t.Fatalf("OpenBadger failed: %v", err)
			}
			return s
		},
	}

	for name, open := range backends {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := open(t)
			t.Cleanup(func() {
				if err := s.Close(); err != nil {
					t.Errorf("Close failed: %v", err)
				}
			})
			fn(t, s)
		})
	}
}

func mustCreateUser(t *testing.T, s Storage, email string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.CreateUserParams{Name: "user " + email, Email: email})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return u
}

func testRoute(lat, lng float64) models.Route {
	return models.Route{
		Start: models.Location{Lat: lat, Lng: lng},
		End:   models.Location{Lat: lat + 1, Lng: lng + 1},
	}
}

func TestStorage_CreateUserDefaults(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()

		u1, err := s.CreateUser(ctx, models.CreateUserParams{
			Name:         "Ada",
			Email:        "Ada@Example.com",
			PasswordHash: "hash",
		})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		u2 := mustCreateUser(t, s, "bob@example.com")

		if u1.ID <= 0 || u2.ID <= u1.ID {
			t.Errorf("ids not increasing: %d then %d", u1.ID, u2.ID)
		}
		if u1.CurrentLocation != nil {
			t.Errorf("new user has location %v, want none", u1.CurrentLocation)
		}
		if u1.Active {
			t.Error("new user should be inactive")
		}
		if u1.Email != "ada@example.com" {
			t.Errorf("email not normalized: %q", u1.Email)
		}

		got, err := s.GetUser(ctx, u1.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.PasswordHash != "hash" {
			t.Errorf("password hash not persisted: %q", got.PasswordHash)
		}

		byEmail, err := s.GetUserByEmail(ctx, "ADA@example.com")
		if err != nil || byEmail.ID != u1.ID {
			t.Errorf("GetUserByEmail = %v, %v; want user %d", byEmail.ID, err, u1.ID)
		}
	})
}

func TestStorage_CreateUserErrors(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		mustCreateUser(t, s, "dup@example.com")

		_, err := s.CreateUser(ctx, models.CreateUserParams{Name: "Again", Email: " DUP@example.com"})
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("duplicate email error = %v, want ErrConflict", err)
		}

		_, err = s.CreateUser(ctx, models.CreateUserParams{Name: "", Email: "x@example.com"})
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("missing name error = %v, want ErrInvalidArgument", err)
		}

		_, err = s.CreateUser(ctx, models.CreateUserParams{Name: "x", Email: "  "})
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("missing email error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestStorage_UserMutations(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		u := mustCreateUser(t, s, "loc@example.com")

		updated, err := s.UpdateUserLocation(ctx, u.ID, models.Location{Lat: 40, Lng: -74})
		if err != nil {
			t.Fatalf("UpdateUserLocation failed: %v", err)
		}
		if updated.CurrentLocation == nil || updated.CurrentLocation.Lat != 40 {
			t.Errorf("location not set: %v", updated.CurrentLocation)
		}

		// A returned copy must not alias stored state.
		updated.CurrentLocation.Lat = 0
		got, _ := s.GetUser(ctx, u.ID)
		if got.CurrentLocation.Lat != 40 {
			t.Errorf("mutating returned user changed store: %v", got.CurrentLocation)
		}

		active, err := s.SetUserActive(ctx, u.ID, true)
		if err != nil || !active.Active {
			t.Errorf("SetUserActive = %v, %v", active.Active, err)
		}

		if _, err := s.UpdateUserLocation(ctx, 999, models.Location{}); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("missing user location error = %v, want ErrNotFound", err)
		}
		if _, err := s.SetUserActive(ctx, 999, true); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("missing user active error = %v, want ErrNotFound", err)
		}
		if _, err := s.GetUser(ctx, 999); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("missing user error = %v, want ErrNotFound", err)
		}
		if _, err := s.UpdateUserLocation(ctx, u.ID, models.Location{Lat: math.NaN()}); !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("NaN location error = %v, want ErrInvalidArgument", err)
		}

		users, err := s.ListUsers(ctx)
		if err != nil || len(users) != 1 {
			t.Errorf("ListUsers = %d users, %v; want 1", len(users), err)
		}
	})
}

func TestStorage_Rides(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		before := time.Now().Add(-time.Second)

		offer, err := s.CreateRide(ctx, models.CreateRideParams{
			UserID: 1, Type: models.RideTypeOffer, Route: testRoute(40, -74), AvailableSeats: 3,
		})
		if err != nil {
			t.Fatalf("CreateRide failed: %v", err)
		}
		if offer.Status != models.RideStatusActive {
			t.Errorf("default status = %s, want active", offer.Status)
		}
		if offer.CreatedAt.Before(before) {
			t.Errorf("CreatedAt %v before request time", offer.CreatedAt)
		}

		request, _ := s.CreateRide(ctx, models.CreateRideParams{UserID: 2, Type: models.RideTypeRequest, Route: testRoute(40, -74)})
		done, _ := s.CreateRide(ctx, models.CreateRideParams{UserID: 3, Type: models.RideTypeOffer, Route: testRoute(40, -74)})

		if _, err := s.UpdateRideStatus(ctx, done.ID, models.RideStatusCancelled); err != nil {
			t.Fatalf("UpdateRideStatus failed: %v", err)
		}

		offers, err := s.ListActiveRides(ctx, models.RideTypeOffer)
		if err != nil {
			t.Fatalf("ListActiveRides failed: %v", err)
		}
		if len(offers) != 1 || offers[0].ID != offer.ID {
			t.Errorf("active offers = %v, want only ride %d", offers, offer.ID)
		}

		all, _ := s.ListActiveRides(ctx, "")
		if len(all) != 2 || all[0].ID != offer.ID || all[1].ID != request.ID {
			t.Errorf("all active rides = %v, want [%d %d]", all, offer.ID, request.ID)
		}

		got, err := s.GetRide(ctx, offer.ID)
		if err != nil || got.AvailableSeats != 3 {
			t.Errorf("GetRide = %+v, %v", got, err)
		}
		if _, err := s.GetRide(ctx, 999); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("missing ride error = %v, want ErrNotFound", err)
		}
	})
}

func TestStorage_RideStatusTransitions(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		r, _ := s.CreateRide(ctx, models.CreateRideParams{UserID: 1, Type: models.RideTypeOffer, Route: testRoute(0, 0)})

		steps := []struct {
			to      models.RideStatus
			wantErr error
		}{
			{models.RideStatusCompleted, models.ErrInvalidArgument},
			{models.RideStatusMatched, nil},
			{models.RideStatusMatched, nil},
			{models.RideStatusInProgress, nil},
			{models.RideStatusActive, models.ErrInvalidArgument},
			{models.RideStatusCompleted, nil},
			{models.RideStatusCancelled, models.ErrInvalidArgument},
			{models.RideStatus("bogus"), models.ErrInvalidArgument},
		}

		for i, step := range steps {
			got, err := s.UpdateRideStatus(ctx, r.ID, step.to)
			if step.wantErr != nil {
				if !errors.Is(err, step.wantErr) {
					t.Errorf("step %d -> %s: error = %v, want %v", i, step.to, err, step.wantErr)
				}
				continue
			}
			if err != nil {
				t.Fatalf("step %d -> %s failed: %v", i, step.to, err)
			}
			if got.Status != step.to {
				t.Errorf("step %d: status = %s, want %s", i, got.Status, step.to)
			}
		}

		if _, err := s.UpdateRideStatus(ctx, 999, models.RideStatusMatched); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("missing ride error = %v, want ErrNotFound", err)
		}
	})
}

func TestStorage_CreateRideValidation(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()

		tests := []struct {
			name string
			p    models.CreateRideParams
		}{
			{"bad type", models.CreateRideParams{Type: "carpool", Route: testRoute(0, 0)}},
			{"nan route", models.CreateRideParams{Type: models.RideTypeOffer, Route: testRoute(math.NaN(), 0)}},
			{"bad status", models.CreateRideParams{Type: models.RideTypeOffer, Route: testRoute(0, 0), Status: "parked"}},
			{"negative seats", models.CreateRideParams{Type: models.RideTypeOffer, Route: testRoute(0, 0), AvailableSeats: -1}},
		}
		for _, tt := range tests {
			if _, err := s.CreateRide(ctx, tt.p); !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("%s: error = %v, want ErrInvalidArgument", tt.name, err)
			}
		}
	})
}

func TestStorage_Messages(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		before := time.Now().Add(-time.Second)

		for i := 0; i < 5; i++ {
			if _, err := s.CreateMessage(ctx, models.CreateMessageParams{
				RideMatchID: 7, SenderID: int64(i%2 + 1), Content: fmt.Sprintf("msg %d", i),
			}); err != nil {
				t.Fatalf("CreateMessage failed: %v", err)
			}
		}
		if _, err := s.CreateMessage(ctx, models.CreateMessageParams{RideMatchID: 8, SenderID: 1, Content: "other"}); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}

		msgs, err := s.ListMessages(ctx, 7)
		if err != nil {
			t.Fatalf("ListMessages failed: %v", err)
		}
		if len(msgs) != 5 {
			t.Fatalf("got %d messages, want 5", len(msgs))
		}
		for i, m := range msgs {
			if m.Content != fmt.Sprintf("msg %d", i) {
				t.Errorf("message %d content = %q", i, m.Content)
			}
			if m.CreatedAt.Before(before) {
				t.Errorf("message %d CreatedAt %v before request", i, m.CreatedAt)
			}
			if i > 0 && (m.CreatedAt.Before(msgs[i-1].CreatedAt) || m.ID <= msgs[i-1].ID) {
				t.Errorf("messages out of order at %d", i)
			}
		}

		empty, err := s.ListMessages(ctx, 42)
		if err != nil || len(empty) != 0 {
			t.Errorf("unknown conversation = %v, %v; want empty", empty, err)
		}

		invalid := []models.CreateMessageParams{
			{RideMatchID: 0, SenderID: 1, Content: "x"},
			{RideMatchID: 7, SenderID: 0, Content: "x"},
			{RideMatchID: 7, SenderID: 1, Content: "   "},
		}
		for _, p := range invalid {
			if _, err := s.CreateMessage(ctx, p); !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("CreateMessage(%+v) error = %v, want ErrInvalidArgument", p, err)
			}
		}
	})
}

func TestStorage_ConcurrentMutations(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()

		const workers = 8
		ids := make([]int64, workers)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				u, err := s.CreateUser(ctx, models.CreateUserParams{
					Name: fmt.Sprintf("w%d", w), Email: fmt.Sprintf("w%d@example.com", w),
				})
				if err != nil {
					t.Errorf("CreateUser failed: %v", err)
					return
				}
				ids[w] = u.ID
				for i := 0; i < 20; i++ {
					if _, err := s.UpdateUserLocation(ctx, u.ID, models.Location{Lat: float64(i), Lng: float64(w)}); err != nil {
						t.Errorf("UpdateUserLocation failed: %v", err)
						return
					}
				}
			}(w)
		}
		wg.Wait()

		seen := make(map[int64]bool)
		for w, id := range ids {
			if seen[id] {
				t.Errorf("duplicate id %d", id)
			}
			seen[id] = true
			u, err := s.GetUser(ctx, id)
			if err != nil {
				t.Fatalf("GetUser(%d) failed: %v", id, err)
			}
			if u.CurrentLocation == nil || u.CurrentLocation.Lat != 19 || u.CurrentLocation.Lng != float64(w) {
				t.Errorf("user %d final location = %v", id, u.CurrentLocation)
			}
		}
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s, err := Open("memory", "")
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("Open(memory) returned %T", s)
	}

	if _, err := Open("postgres", ""); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Open(postgres) error = %v, want ErrInvalidArgument", err)
	}
}

func TestMemory_MessageTimestampsNeverGoBackwards(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	i := 0
	m.now = func() time.Time {
		now := clock[i]
		i++
		return now
	}

	ctx := context.Background()
	var last time.Time
	for n := 0; n < len(clock); n++ {
		msg, err := m.CreateMessage(ctx, models.CreateMessageParams{RideMatchID: 1, SenderID: 1, Content: "x"})
		if err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
		if msg.CreatedAt.Before(last) {
			t.Errorf("message %d CreatedAt %v before previous %v", n, msg.CreatedAt, last)
		}
		last = msg.CreatedAt
	}
}
