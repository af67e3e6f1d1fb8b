// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/ridematch/internal/models"
)

// Memory is the in-process Storage backend.
//
// Each entity kind keeps a map of id -> record under an RWMutex that guards
// only the map structure; the record itself is guarded by its own mutex.
type Memory struct {
	usersMu    sync.RWMutex
	users      map[int64]*userRecord
	emails     map[string]int64
	lastUserID int64

	ridesMu    sync.RWMutex
	rides      map[int64]*rideRecord
	lastRideID int64

	convMu        sync.RWMutex
	conversations map[int64]*conversation
	lastMessageID int64

	now func() time.Time
}

type userRecord struct {
	mu   sync.Mutex
	user models.User
}

type rideRecord struct {
	mu   sync.Mutex
	ride models.Ride
}

type conversation struct {
	mu       sync.Mutex
	messages []models.Message
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:         make(map[int64]*userRecord),
		emails:        make(map[string]int64),
		rides:         make(map[int64]*rideRecord),
		conversations: make(map[int64]*conversation),
		now:           time.Now,
	}
}

// CreateUser stores a new inactive user without a location.
func (m *Memory) CreateUser(_ context.Context, p models.CreateUserParams) (models.User, error) {
	if err := validateUser(p); err != nil {
		return models.User{}, err
	}
	email := models.NormalizeEmail(p.Email)

	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	if _, taken := m.emails[email]; taken {
		return models.User{}, fmt.Errorf("email %s already registered: %w", email, models.ErrConflict)
	}

	m.lastUserID++
	u := models.User{
		ID:                 m.lastUserID,
		Name:               p.Name,
		Email:              email,
		PasswordHash:       p.PasswordHash,
		Role:               p.Role,
		Avatar:             p.Avatar,
		ComfortPreferences: p.ComfortPreferences,
		CreatedAt:          m.now().UTC(),
	}
	u = u.Clone()
	m.users[u.ID] = &userRecord{user: u}
	m.emails[email] = u.ID
	return u.Clone(), nil
}

func (m *Memory) lookupUser(id int64) (*userRecord, error) {
	m.usersMu.RLock()
	rec, ok := m.users[id]
	m.usersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return rec, nil
}

// GetUser returns a copy of the user with the given id.
func (m *Memory) GetUser(_ context.Context, id int64) (models.User, error) {
	rec, err := m.lookupUser(id)
	if err != nil {
		return models.User{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.user.Clone(), nil
}

// GetUserByEmail looks a user up by case-insensitive email.
func (m *Memory) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	m.usersMu.RLock()
	id, ok := m.emails[models.NormalizeEmail(email)]
	m.usersMu.RUnlock()
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	return m.GetUser(ctx, id)
}

// UpdateUserLocation sets the user's current location.
func (m *Memory) UpdateUserLocation(_ context.Context, id int64, loc models.Location) (models.User, error) {
	if err := validateLocation(loc); err != nil {
		return models.User{}, err
	}
	rec, err := m.lookupUser(id)
	if err != nil {
		return models.User{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.user.CurrentLocation = &loc
	return rec.user.Clone(), nil
}

// SetUserActive sets the user's presence flag.
func (m *Memory) SetUserActive(_ context.Context, id int64, active bool) (models.User, error) {
	rec, err := m.lookupUser(id)
	if err != nil {
		return models.User{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.user.Active = active
	return rec.user.Clone(), nil
}

// ListUsers returns every user ordered by id.
func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.usersMu.RLock()
	recs := make([]*userRecord, 0, len(m.users))
	for _, rec := range m.users {
		recs = append(recs, rec)
	}
	m.usersMu.RUnlock()

	out := make([]models.User, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		out = append(out, rec.user.Clone())
		rec.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateRide stores a new ride. An empty status defaults to active.
func (m *Memory) CreateRide(_ context.Context, p models.CreateRideParams) (models.Ride, error) {
	status, err := rideStatusOrDefault(p)
	if err != nil {
		return models.Ride{}, err
	}

	m.ridesMu.Lock()
	defer m.ridesMu.Unlock()

	m.lastRideID++
	r := models.Ride{
		ID:             m.lastRideID,
		UserID:         p.UserID,
		Type:           p.Type,
		Status:         status,
		Route:          p.Route.Clone(),
		VehicleType:    p.VehicleType,
		IsPooling:      p.IsPooling,
		AvailableSeats: p.AvailableSeats,
		Price:          p.Price,
		CreatedAt:      m.now().UTC(),
	}
	m.rides[r.ID] = &rideRecord{ride: r}
	return r.Clone(), nil
}

func (m *Memory) lookupRide(id int64) (*rideRecord, error) {
	m.ridesMu.RLock()
	rec, ok := m.rides[id]
	m.ridesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("ride %d: %w", id, models.ErrNotFound)
	}
	return rec, nil
}

// GetRide returns a copy of the ride with the given id.
func (m *Memory) GetRide(_ context.Context, id int64) (models.Ride, error) {
	rec, err := m.lookupRide(id)
	if err != nil {
		return models.Ride{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.ride.Clone(), nil
}

// UpdateRideStatus moves a ride to status if the transition is allowed.
func (m *Memory) UpdateRideStatus(_ context.Context, id int64, status models.RideStatus) (models.Ride, error) {
	rec, err := m.lookupRide(id)
	if err != nil {
		return models.Ride{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if err := checkTransition(id, rec.ride.Status, status); err != nil {
		return models.Ride{}, err
	}
	rec.ride.Status = status
	return rec.ride.Clone(), nil
}

// ListActiveRides returns active rides of rideType (all types when empty), ordered by id.
func (m *Memory) ListActiveRides(_ context.Context, rideType models.RideType) ([]models.Ride, error) {
	m.ridesMu.RLock()
	recs := make([]*rideRecord, 0, len(m.rides))
	for _, rec := range m.rides {
		recs = append(recs, rec)
	}
	m.ridesMu.RUnlock()

	out := make([]models.Ride, 0)
	for _, rec := range recs {
		rec.mu.Lock()
		r := rec.ride
		if r.Status == models.RideStatusActive && (rideType == "" || r.Type == rideType) {
			out = append(out, r.Clone())
		}
		rec.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateMessage appends a message to its conversation. CreatedAt never goes
// backwards within a conversation.
func (m *Memory) CreateMessage(_ context.Context, p models.CreateMessageParams) (models.Message, error) {
	if err := validateMessage(p); err != nil {
		return models.Message{}, err
	}

	m.convMu.Lock()
	conv, ok := m.conversations[p.RideMatchID]
	if !ok {
		conv = &conversation{}
		m.conversations[p.RideMatchID] = conv
	}
	m.lastMessageID++
	id := m.lastMessageID
	m.convMu.Unlock()

	conv.mu.Lock()
	defer conv.mu.Unlock()

	createdAt := m.now().UTC()
	if n := len(conv.messages); n > 0 && createdAt.Before(conv.messages[n-1].CreatedAt) {
		createdAt = conv.messages[n-1].CreatedAt
	}
	msg := models.Message{
		ID:          id,
		RideMatchID: p.RideMatchID,
		SenderID:    p.SenderID,
		Content:     p.Content,
		CreatedAt:   createdAt,
	}
	conv.messages = append(conv.messages, msg)
	return msg, nil
}

// ListMessages returns a conversation ordered by CreatedAt, then ID.
func (m *Memory) ListMessages(_ context.Context, rideMatchID int64) ([]models.Message, error) {
	m.convMu.RLock()
	conv, ok := m.conversations[rideMatchID]
	m.convMu.RUnlock()
	if !ok {
		return []models.Message{}, nil
	}

	conv.mu.Lock()
	out := make([]models.Message, len(conv.messages))
	copy(out, conv.messages)
	conv.mu.Unlock()

	sortMessages(out)
	return out, nil
}

// Close is a no-op for the memory backend.
func (m *Memory) Close() error {
	return nil
}

func sortMessages(msgs []models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
}
