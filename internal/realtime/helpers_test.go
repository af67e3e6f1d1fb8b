// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ridematch/internal/models"
	"github.com/tomtom215/ridematch/internal/store"
	"github.com/tomtom215/ridematch/internal/websocket"
)

// recorder is a websocket.Transport that keeps every frame.
type recorder struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (r *recorder) Send(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, p)
	return nil
}

func (r *recorder) Ping() error { return nil }

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// frame is a decoded outbound event. Message stays raw because it is an
// object in chat and a string in pong and error replies.
type frame struct {
	Type      EventType       `json:"type"`
	Message   json.RawMessage `json:"message"`
	UserID    int64           `json:"userId"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Users     []NearbyUser    `json:"users"`
	Timestamp string          `json:"timestamp"`
}

func (f frame) text(t *testing.T) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(f.Message, &s); err != nil {
		t.Fatalf("message is not a string: %s", f.Message)
	}
	return s
}

func (f frame) chat(t *testing.T) models.Message {
	t.Helper()
	var m models.Message
	if err := json.Unmarshal(f.Message, &m); err != nil {
		t.Fatalf("message is not a chat message: %s", f.Message)
	}
	return m
}

func (r *recorder) events(t *testing.T) []frame {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]frame, 0, len(r.frames))
	for _, p := range r.frames {
		var f frame
		if err := json.Unmarshal(p, &f); err != nil {
			t.Fatalf("bad outbound frame %s: %v", p, err)
		}
		out = append(out, f)
	}
	return out
}

func (r *recorder) last(t *testing.T) frame {
	t.Helper()
	evs := r.events(t)
	if len(evs) == 0 {
		t.Fatal("no frames recorded")
	}
	return evs[len(evs)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type harness struct {
	d        *Dispatcher
	store    store.Storage
	registry *websocket.Registry
	presence *Presence
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { _ = st.Close() })
	reg := websocket.NewRegistry()
	presence := NewPresence(0.1)
	d := NewDispatcher(st, reg, websocket.NewBroadcaster(reg, nil), presence, Config{NearbyRadius: 0.1})
	return &harness{d: d, store: st, registry: reg, presence: presence}
}

func (h *harness) connect() (*websocket.Connection, *recorder) {
	rec := &recorder{}
	return h.registry.Register(rec), rec
}

func (h *harness) send(conn *websocket.Connection, payload string) {
	h.d.HandlePayload(context.Background(), conn, []byte(payload))
}

func (h *harness) createUser(t *testing.T, name string) models.User {
	t.Helper()
	u, err := h.store.CreateUser(context.Background(), models.CreateUserParams{
		Name:  name,
		Email: name + "@example.com",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// identified connects and sends init for userID.
func (h *harness) identified(t *testing.T, userID int64) (*websocket.Connection, *recorder) {
	t.Helper()
	conn, rec := h.connect()
	h.send(conn, fmt.Sprintf(`{"type":"init","userId":%d}`, userID))
	if got := rec.last(t).Type; got != EventInitConfirmed {
		t.Fatalf("init reply = %s", got)
	}
	return conn, rec
}
