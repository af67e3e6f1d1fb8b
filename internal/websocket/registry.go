// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package websocket

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/metrics"
)

var (
	// ErrUnknownConnection is returned when a handle is not in the registry.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrConnectionClosed is returned by a Transport after Close.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrSendQueueFull is returned when a Transport cannot accept more messages.
	ErrSendQueueFull = errors.New("send queue full")
)

// Handle identifies a connection for its lifetime. Handles are assigned from
// a process-wide counter starting at 1, so 0 never names a connection and
// iteration in handle order is iteration in connect order.
type Handle uint64

// handleCounter generates unique, monotonically increasing handles.
var handleCounter atomic.Uint64

// ConnState is the lifecycle state of a connection.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Transport is the write side of one realtime session.
//
// Send must not block: it queues payload or fails. Ping writes a liveness
// probe. Close tears the session down and is safe to call more than once.
// All three may be called from any goroutine.
type Transport interface {
	Send(payload []byte) error
	Ping() error
	Close() error
}

// Connection is the registry's record of one session. Only the registry (and
// the liveness monitor in this package) mutate it.
type Connection struct {
	handle      Handle
	transport   Transport
	connectedAt time.Time

	mu     sync.RWMutex
	userID int64
	alive  bool
	state  ConnState
}

// Handle returns the connection's handle.
func (c *Connection) Handle() Handle {
	return c.handle
}

// ConnectedAt returns when the connection was registered.
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// UserID returns the bound user and whether init has happened.
func (c *Connection) UserID() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, c.userID > 0
}

// Alive reports whether the connection answered since the last probe.
func (c *Connection) Alive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.alive
}

// State returns the lifecycle state.
func (c *Connection) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Connection) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// RemoveHook runs after a connection leaves the registry.
type RemoveHook func(c *Connection)

// Registry tracks open connections by handle.
type Registry struct {
	mu    sync.RWMutex
	conns map[Handle]*Connection

	hooksMu sync.RWMutex
	hooks   []RemoveHook
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[Handle]*Connection)}
}

// OnRemove registers fn to run after every removal, outside the registry lock.
func (r *Registry) OnRemove(fn RemoveHook) {
	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Register adds a new connection for t. It starts Open and alive.
func (r *Registry) Register(t Transport) *Connection {
	c := &Connection{
		handle:      Handle(handleCounter.Add(1)),
		transport:   t,
		connectedAt: time.Now(),
		state:       StateConnecting,
	}

	r.mu.Lock()
	c.mu.Lock()
	c.alive = true
	c.state = StateOpen
	c.mu.Unlock()
	r.conns[c.handle] = c
	total := len(r.conns)
	r.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Debug().Uint64("conn_id", uint64(c.handle)).Int("total_connections", total).Msg("websocket connection registered")
	return c
}

// Get returns the connection for h.
func (r *Registry) Get(h Handle) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[h]
	return c, ok
}

// SetUser binds userID to h, replacing any earlier binding.
func (r *Registry) SetUser(h Handle, userID int64) error {
	c, ok := r.Get(h)
	if !ok {
		return ErrUnknownConnection
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return ErrUnknownConnection
	}
	c.userID = userID
	return nil
}

// MarkAlive records a pong or heartbeat from h.
func (r *Registry) MarkAlive(h Handle) bool {
	c, ok := r.Get(h)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return false
	}
	c.alive = true
	return true
}

// beginProbe clears the alive flag ahead of a ping.
func (r *Registry) beginProbe(c *Connection) {
	c.mu.Lock()
	if c.state == StateOpen {
		c.alive = false
	}
	c.mu.Unlock()
}

// MarkDead moves h to Closing. It stays in the registry until Remove but is
// no longer visited by ForEach or counted.
func (r *Registry) MarkDead(h Handle) bool {
	c, ok := r.Get(h)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return false
	}
	c.alive = false
	c.state = StateClosing
	return true
}

// Remove deletes h, closes its transport and runs the remove hooks.
// It reports whether h was present.
func (r *Registry) Remove(h Handle) bool {
	r.mu.Lock()
	c, ok := r.conns[h]
	if ok {
		delete(r.conns, h)
	}
	total := len(r.conns)
	r.mu.Unlock()

	if !ok {
		return false
	}

	c.setState(StateClosed)
	if err := c.transport.Close(); err != nil && !errors.Is(err, ErrConnectionClosed) {
		logging.Debug().Err(err).Uint64("conn_id", uint64(h)).Msg("error closing websocket transport")
	}
	metrics.WSConnections.Dec()

	userID, _ := c.UserID()
	logging.Debug().Uint64("conn_id", uint64(h)).Int64("user_id", userID).Int("total_connections", total).Msg("websocket connection removed")

	r.hooksMu.RLock()
	hooks := append([]RemoveHook(nil), r.hooks...)
	r.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(c)
	}
	return true
}

// snapshot returns the Open connections ordered by handle.
func (r *Registry) snapshot() []*Connection {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	open := conns[:0]
	for _, c := range conns {
		if c.State() == StateOpen {
			open = append(open, c)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].handle < open[j].handle })
	return open
}

// ForEach calls fn for every Open connection, in handle order, over a
// snapshot taken before the first call. fn may Remove connections.
func (r *Registry) ForEach(fn func(c *Connection)) {
	for _, c := range r.snapshot() {
		fn(c)
	}
}

// CountByPredicate returns how many Open connections satisfy pred.
func (r *Registry) CountByPredicate(pred func(c *Connection) bool) int {
	n := 0
	for _, c := range r.snapshot() {
		if pred(c) {
			n++
		}
	}
	return n
}

// Count returns the number of Open connections.
func (r *Registry) Count() int {
	return r.CountByPredicate(func(*Connection) bool { return true })
}

// HasUser reports whether any Open connection other than except is bound to userID.
func (r *Registry) HasUser(userID int64, except Handle) bool {
	return r.CountByPredicate(func(c *Connection) bool {
		id, ok := c.UserID()
		return ok && id == userID && c.handle != except
	}) > 0
}

// CloseAll removes every connection. Used on shutdown.
func (r *Registry) CloseAll() int {
	r.mu.RLock()
	handles := make([]Handle, 0, len(r.conns))
	for h := range r.conns {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	closed := 0
	for _, h := range handles {
		if r.Remove(h) {
			closed++
		}
	}
	return closed
}
