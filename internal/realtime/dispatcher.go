// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ridematch/internal/geo"
	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/metrics"
	"github.com/tomtom215/ridematch/internal/models"
	"github.com/tomtom215/ridematch/internal/store"
	"github.com/tomtom215/ridematch/internal/websocket"
)

const pongMessage = "Connection successful!"

// Publisher relays local broadcasts to other instances.
type Publisher interface {
	PublishChat(ctx context.Context, msg models.Message, event ChatBroadcast)
	PublishLocation(ctx context.Context, event LocationBroadcast)
}

// Config tunes the Dispatcher.
type Config struct {
	// NearbyRadius is the get_nearby_users radius in degrees.
	NearbyRadius float64
}

// handlerFunc processes one decoded event for conn.
type handlerFunc func(ctx context.Context, conn *websocket.Connection, ev Event) error

// Dispatcher routes inbound events to their handler.
type Dispatcher struct {
	store       store.Storage
	registry    *websocket.Registry
	broadcaster *websocket.Broadcaster
	presence    *Presence
	publisher   Publisher
	cfg         Config
	now         func() time.Time

	handlers map[EventType]handlerFunc
}

// NewDispatcher wires a dispatcher and registers its disconnect hook on registry.
func NewDispatcher(st store.Storage, registry *websocket.Registry, broadcaster *websocket.Broadcaster, presence *Presence, cfg Config) *Dispatcher {
	if !(cfg.NearbyRadius > 0) {
		cfg.NearbyRadius = geo.DefaultThreshold
	}
	d := &Dispatcher{
		store:       st,
		registry:    registry,
		broadcaster: broadcaster,
		presence:    presence,
		cfg:         cfg,
		now:         time.Now,
	}
	d.handlers = map[EventType]handlerFunc{
		EventInit:           d.handleInit,
		EventChat:           d.handleChat,
		EventLocationUpdate: d.handleLocationUpdate,
		EventPing:           d.handlePing,
		EventGetNearbyUsers: d.handleGetNearbyUsers,
	}
	registry.OnRemove(d.onDisconnect)
	return d
}

// SetPublisher enables cluster relay of chat and location broadcasts.
func (d *Dispatcher) SetPublisher(p Publisher) {
	d.publisher = p
}

// Serve runs one websocket session until it closes. It blocks.
func (d *Dispatcher) Serve(ctx context.Context, client *websocket.Client) {
	conn := d.registry.Register(client)
	h := conn.Handle()
	log := logging.ConnLogger(uint64(h), 0)
	log.Info().Msg("websocket client connected")

	client.SetPongHandler(func() { d.registry.MarkAlive(h) })
	go client.WritePump()

	err := client.ReadLoop(func(payload []byte) {
		if !client.Allow() {
			metrics.RecordWSError("rate_limited")
			d.replyError(conn, "rate limit exceeded, slow down")
			return
		}
		d.HandlePayload(ctx, conn, payload)
	})
	if err != nil {
		log.Debug().Err(err).Msg("websocket read loop ended")
	}

	d.registry.Remove(h)
	log.Info().Dur("duration", time.Since(conn.ConnectedAt())).Msg("websocket client disconnected")
}

// HandlePayload decodes and dispatches one frame from conn. Failures and
// panics become an error reply; nothing here closes the connection.
func (d *Dispatcher) HandlePayload(ctx context.Context, conn *websocket.Connection, payload []byte) {
	userID, _ := conn.UserID()
	log := logging.ConnLogger(uint64(conn.Handle()), userID)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("websocket handler panicked")
			metrics.RecordWSError("panic")
			d.replyError(conn, "internal error")
		}
	}()

	ev, err := DecodeEvent(payload)
	if err != nil {
		metrics.RecordWSReceived("invalid")
		metrics.RecordWSError(errorKind(err))
		log.Debug().Err(err).Msg("rejected websocket payload")
		d.replyError(conn, err.Error())
		return
	}
	metrics.RecordWSReceived(string(ev.Type()))

	handler, ok := d.handlers[ev.Type()]
	if !ok {
		d.replyError(conn, fmt.Sprintf("no handler for %q", ev.Type()))
		return
	}

	ctx = logging.ContextWithLogger(ctx, log.With().Str("event_type", string(ev.Type())).Logger())
	if err := handler(ctx, conn, ev); err != nil {
		metrics.RecordWSError(errorKind(err))
		logEvent(log, err).Err(err).Str("event_type", string(ev.Type())).Msg("websocket event failed")
		d.replyError(conn, err.Error())
	}
}

func (d *Dispatcher) handleInit(ctx context.Context, conn *websocket.Connection, ev Event) error {
	e := ev.(InitEvent)

	prev, hadUser := conn.UserID()
	if err := d.registry.SetUser(conn.Handle(), e.UserID); err != nil {
		return fmt.Errorf("bind user %d: %w", e.UserID, err)
	}
	if hadUser && prev != e.UserID {
		d.release(conn.Handle(), prev)
	}

	user, err := d.store.SetUserActive(ctx, e.UserID, true)
	switch {
	case err == nil:
		if user.CurrentLocation != nil {
			d.presence.Update(user.ID, *user.CurrentLocation)
		}
	case errors.Is(err, models.ErrNotFound):
		logging.Ctx(ctx).Debug().Int64("user_id", e.UserID).Msg("init for unknown user")
	default:
		return fmt.Errorf("activate user %d: %w", e.UserID, err)
	}

	d.unicast(conn, InitConfirmed{Type: EventInitConfirmed, UserID: e.UserID, Timestamp: d.timestamp()})
	logging.Ctx(ctx).Info().Int64("user_id", e.UserID).Msg("websocket client identified")
	return nil
}

func (d *Dispatcher) handleChat(ctx context.Context, conn *websocket.Connection, ev Event) error {
	e := ev.(ChatEvent)

	sender := e.SenderID
	if sender == 0 {
		id, ok := conn.UserID()
		if !ok {
			return fmt.Errorf("%w: chat requires senderId or a prior init", models.ErrInvalidArgument)
		}
		sender = id
	}

	msg, err := d.store.CreateMessage(ctx, models.CreateMessageParams{
		RideMatchID: e.RideID,
		SenderID:    sender,
		Content:     e.Content,
	})
	if err != nil {
		return fmt.Errorf("store chat message: %w", err)
	}

	out := ChatBroadcast{Type: EventChat, Message: msg, Timestamp: d.timestamp()}
	report := d.broadcaster.BroadcastChat(ctx, msg, out)
	logging.Ctx(ctx).Debug().
		Int64("message_id", msg.ID).
		Int64("ride_match_id", msg.RideMatchID).
		Str("content", logging.TruncateContent(msg.Content)).
		Int("delivered", report.Delivered).
		Int("failed", len(report.Failed)).
		Msg("chat broadcast")

	if d.publisher != nil {
		d.publisher.PublishChat(ctx, msg, out)
	}
	return nil
}

func (d *Dispatcher) handleLocationUpdate(ctx context.Context, conn *websocket.Connection, ev Event) error {
	e := ev.(LocationUpdateEvent)

	userID, ok := conn.UserID()
	if !ok {
		return ErrNotInitialized
	}
	if _, err := d.store.UpdateUserLocation(ctx, userID, e.Location); err != nil {
		return fmt.Errorf("update location of user %d: %w", userID, err)
	}
	d.presence.Update(userID, e.Location)

	out := LocationBroadcast{
		Type:      EventUserLocationUpdated,
		UserID:    userID,
		Latitude:  e.Location.Lat,
		Longitude: e.Location.Lng,
		Timestamp: d.timestamp(),
	}
	d.broadcaster.BroadcastLocationUpdate(conn.Handle(), out)

	if d.publisher != nil {
		d.publisher.PublishLocation(ctx, out)
	}
	return nil
}

func (d *Dispatcher) handlePing(_ context.Context, conn *websocket.Connection, _ Event) error {
	d.registry.MarkAlive(conn.Handle())
	d.unicast(conn, Pong{Type: EventPong, Message: pongMessage, Timestamp: d.timestamp()})
	return nil
}

func (d *Dispatcher) handleGetNearbyUsers(ctx context.Context, conn *websocket.Connection, _ Event) error {
	userID, ok := conn.UserID()
	if !ok {
		return ErrNotInitialized
	}

	center, ok := d.presence.Location(userID)
	if !ok {
		return fmt.Errorf("%w: location of user %d is unknown, send location_update first", models.ErrInvalidArgument, userID)
	}

	users := make([]NearbyUser, 0)
	for _, n := range d.presence.Nearby(userID, center, d.cfg.NearbyRadius) {
		u, err := d.store.GetUser(ctx, n.ID)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load nearby user %d: %w", n.ID, err)
		}
		if !u.Active {
			continue
		}
		loc := n.Location
		u.CurrentLocation = &loc
		users = append(users, NearbyUser{User: u, Distance: n.Distance})
	}

	d.unicast(conn, NearbyUsers{Type: EventNearbyUsers, Users: users, Timestamp: d.timestamp()})
	return nil
}

// onDisconnect runs after a connection leaves the registry.
func (d *Dispatcher) onDisconnect(c *websocket.Connection) {
	if userID, ok := c.UserID(); ok {
		d.release(c.Handle(), userID)
	}
}

// release marks userID offline unless another open connection still carries it.
func (d *Dispatcher) release(h websocket.Handle, userID int64) {
	if d.registry.HasUser(userID, h) {
		return
	}
	d.presence.Remove(userID)
	if _, err := d.store.SetUserActive(context.Background(), userID, false); err != nil && !errors.Is(err, models.ErrNotFound) {
		log := logging.ConnLogger(uint64(h), userID)
		log.Warn().Err(err).Msg("failed to mark user inactive")
	}
}

// ApplyRemoteLocation records a location broadcast relayed from another instance.
func (d *Dispatcher) ApplyRemoteLocation(ev LocationBroadcast) {
	d.presence.Update(ev.UserID, models.Location{Lat: ev.Latitude, Lng: ev.Longitude})
	d.broadcaster.BroadcastLocationUpdate(websocket.NoSender, ev)
}

// ApplyRemoteChat delivers a chat message relayed from another instance.
func (d *Dispatcher) ApplyRemoteChat(ctx context.Context, msg models.Message, ev ChatBroadcast) {
	d.broadcaster.BroadcastChat(ctx, msg, ev)
}

func (d *Dispatcher) unicast(conn *websocket.Connection, event any) {
	d.broadcaster.Unicast(conn.Handle(), event)
}

func (d *Dispatcher) replyError(conn *websocket.Connection, message string) {
	d.unicast(conn, ErrorReply{Type: EventError, Message: message, Timestamp: d.timestamp()})
}

func (d *Dispatcher) timestamp() string {
	return FormatTimestamp(d.now())
}

// errorKind maps an error to a metric label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownEvent):
		return "unknown_event"
	case errors.Is(err, ErrMalformedEvent):
		return "malformed"
	case errors.Is(err, ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}

// logEvent picks the level for a failed event: client mistakes are debug noise.
func logEvent(log zerolog.Logger, err error) *zerolog.Event {
	if errorKind(err) == "internal" {
		return log.Error()
	}
	return log.Debug()
}
