// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ridematch/internal/models"
)

// EventType is the "type" tag of a websocket frame.
type EventType string

// Inbound event types.
const (
	EventInit           EventType = "init"
	EventChat           EventType = "chat"
	EventLocationUpdate EventType = "location_update"
	EventPing           EventType = "ping"
	EventGetNearbyUsers EventType = "get_nearby_users"
)

// Outbound event types.
const (
	EventInitConfirmed       EventType = "init_confirmed"
	EventUserLocationUpdated EventType = "user_location_updated"
	EventPong                EventType = "pong"
	EventNearbyUsers         EventType = "nearby_users"
	EventError               EventType = "error"
)

var (
	// ErrMalformedEvent marks a frame that is not a valid event.
	ErrMalformedEvent = fmt.Errorf("%w: malformed event", models.ErrInvalidArgument)

	// ErrUnknownEvent marks a well-formed frame with an unsupported type.
	ErrUnknownEvent = fmt.Errorf("%w: unknown event type", models.ErrInvalidArgument)

	// ErrNotInitialized is returned for events that need a prior init.
	ErrNotInitialized = errors.New("connection not initialized: send init first")
)

// Event is an inbound websocket event.
type Event interface {
	Type() EventType
}

// InitEvent binds a user to the connection.
type InitEvent struct {
	UserID int64
}

// ChatEvent posts a message to a ride conversation. SenderID is zero when
// the client omitted it.
type ChatEvent struct {
	RideID   int64
	SenderID int64
	Content  string
}

// LocationUpdateEvent reports the sender's position.
type LocationUpdateEvent struct {
	Location models.Location
}

// PingEvent is an application-level heartbeat.
type PingEvent struct{}

// GetNearbyUsersEvent asks for active users near the sender.
type GetNearbyUsersEvent struct{}

func (InitEvent) Type() EventType           { return EventInit }
func (ChatEvent) Type() EventType           { return EventChat }
func (LocationUpdateEvent) Type() EventType { return EventLocationUpdate }
func (PingEvent) Type() EventType           { return EventPing }
func (GetNearbyUsersEvent) Type() EventType { return EventGetNearbyUsers }

// Wire shapes. Pointers distinguish missing fields from zero values.
type (
	envelope struct {
		Type *string `json:"type"`
	}
	initWire struct {
		UserID *int64 `json:"userId"`
	}
	chatWire struct {
		RideID   *int64  `json:"rideId"`
		SenderID *int64  `json:"senderId"`
		Content  *string `json:"content"`
	}
	locationWire struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
)

// DecodeEvent parses one inbound frame.
func DecodeEvent(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.Type == nil || *env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	switch t := EventType(*env.Type); t {
	case EventInit:
		var w initWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, t, err)
		}
		if w.UserID == nil || *w.UserID <= 0 {
			return nil, fmt.Errorf("%w: init requires a positive userId", ErrMalformedEvent)
		}
		return InitEvent{UserID: *w.UserID}, nil

	case EventChat:
		var w chatWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, t, err)
		}
		if w.RideID == nil || *w.RideID <= 0 {
			return nil, fmt.Errorf("%w: chat requires a positive rideId", ErrMalformedEvent)
		}
		if w.Content == nil || *w.Content == "" {
			return nil, fmt.Errorf("%w: chat requires content", ErrMalformedEvent)
		}
		ev := ChatEvent{RideID: *w.RideID, Content: *w.Content}
		if w.SenderID != nil {
			if *w.SenderID <= 0 {
				return nil, fmt.Errorf("%w: senderId must be positive", ErrMalformedEvent)
			}
			ev.SenderID = *w.SenderID
		}
		return ev, nil

	case EventLocationUpdate:
		var w locationWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, t, err)
		}
		if w.Latitude == nil || w.Longitude == nil {
			return nil, fmt.Errorf("%w: location_update requires latitude and longitude", ErrMalformedEvent)
		}
		loc := models.Location{Lat: *w.Latitude, Lng: *w.Longitude}
		if !loc.Valid() {
			return nil, fmt.Errorf("%w: non-finite coordinates", ErrMalformedEvent)
		}
		return LocationUpdateEvent{Location: loc}, nil

	case EventPing:
		return PingEvent{}, nil

	case EventGetNearbyUsers:
		return GetNearbyUsersEvent{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, t)
	}
}

// Outbound frames.

// InitConfirmed acknowledges init.
type InitConfirmed struct {
	Type      EventType `json:"type"`
	UserID    int64     `json:"userId"`
	Timestamp string    `json:"timestamp"`
}

// ChatBroadcast carries a stored chat message.
type ChatBroadcast struct {
	Type      EventType      `json:"type"`
	Message   models.Message `json:"message"`
	Timestamp string         `json:"timestamp"`
}

// LocationBroadcast announces a user's new position.
type LocationBroadcast struct {
	Type      EventType `json:"type"`
	UserID    int64     `json:"userId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp string    `json:"timestamp"`
}

// Pong answers an application-level ping.
type Pong struct {
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
}

// NearbyUser is one entry of a nearby_users reply.
type NearbyUser struct {
	models.User
	Distance float64 `json:"distance"`
}

// NearbyUsers answers get_nearby_users, nearest first.
type NearbyUsers struct {
	Type      EventType    `json:"type"`
	Users     []NearbyUser `json:"users"`
	Timestamp string       `json:"timestamp"`
}

// ErrorReply reports a failed or rejected event.
type ErrorReply struct {
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
}

// timestampLayout is RFC 3339 with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t the way every outbound frame does.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
