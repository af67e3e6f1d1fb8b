// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package websocket

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/metrics"
	"github.com/tomtom215/ridematch/internal/models"
)

// Broadcast kinds, used as metric labels.
const (
	KindChat     = "chat"
	KindLocation = "location_update"
	KindUnicast  = "unicast"
)

// NoSender is passed to BroadcastLocationUpdate for events that did not
// originate on a local connection.
const NoSender Handle = 0

// DeliveryReport describes one fan-out.
type DeliveryReport struct {
	Attempted int      `json:"attempted"`
	Delivered int      `json:"delivered"`
	Failed    []Handle `json:"failed,omitempty"`
}

// RecipientPolicy selects the connections that receive a chat message.
type RecipientPolicy interface {
	Name() string
	Recipients(ctx context.Context, msg models.Message) (func(c *Connection) bool, error)
}

// Recipient policy names accepted by PolicyByName.
const (
	PolicyAll          = "all"
	PolicyParticipants = "participants"
)

// AllConnections delivers chat to every open connection, identified or not.
type AllConnections struct{}

// Name implements RecipientPolicy.
func (AllConnections) Name() string { return PolicyAll }

// Recipients implements RecipientPolicy.
func (AllConnections) Recipients(context.Context, models.Message) (func(*Connection) bool, error) {
	return func(*Connection) bool { return true }, nil
}

// ParticipantResolver lists the user ids taking part in a ride conversation.
type ParticipantResolver interface {
	Participants(ctx context.Context, rideMatchID int64) ([]int64, error)
}

// RideParticipants delivers chat only to identified connections whose user
// takes part in the ride conversation. The sender is always included.
type RideParticipants struct {
	Resolver ParticipantResolver
}

// Name implements RecipientPolicy.
func (RideParticipants) Name() string { return PolicyParticipants }

// Recipients implements RecipientPolicy.
func (p RideParticipants) Recipients(ctx context.Context, msg models.Message) (func(*Connection) bool, error) {
	ids, err := p.Resolver.Participants(ctx, msg.RideMatchID)
	if err != nil {
		return nil, fmt.Errorf("resolve participants of ride %d: %w", msg.RideMatchID, err)
	}
	allowed := make(map[int64]struct{}, len(ids)+1)
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	allowed[msg.SenderID] = struct{}{}

	return func(c *Connection) bool {
		id, ok := c.UserID()
		if !ok {
			return false
		}
		_, in := allowed[id]
		return in
	}, nil
}

// PolicyByName returns the recipient policy for name. An empty name selects
// AllConnections.
func PolicyByName(name string, resolver ParticipantResolver) (RecipientPolicy, error) {
	switch name {
	case "", PolicyAll:
		return AllConnections{}, nil
	case PolicyParticipants:
		if resolver == nil {
			return nil, fmt.Errorf("%w: participants policy needs a resolver", models.ErrInvalidArgument)
		}
		return RideParticipants{Resolver: resolver}, nil
	default:
		return nil, fmt.Errorf("%w: unknown chat scope %q", models.ErrInvalidArgument, name)
	}
}

// Broadcaster fans events out to registry connections. Send failures are
// reported and counted, never returned.
type Broadcaster struct {
	registry *Registry
	policy   RecipientPolicy
}

// NewBroadcaster returns a Broadcaster. A nil policy means AllConnections.
func NewBroadcaster(registry *Registry, policy RecipientPolicy) *Broadcaster {
	if policy == nil {
		policy = AllConnections{}
	}
	return &Broadcaster{registry: registry, policy: policy}
}

// Policy returns the chat recipient policy in use.
func (b *Broadcaster) Policy() RecipientPolicy {
	return b.policy
}

// BroadcastChat sends event to the connections the policy selects for msg.
func (b *Broadcaster) BroadcastChat(ctx context.Context, msg models.Message, event any) DeliveryReport {
	pred, err := b.policy.Recipients(ctx, msg)
	if err != nil {
		logging.Error().Err(err).Str("policy", b.policy.Name()).Int64("ride_match_id", msg.RideMatchID).Msg("chat broadcast skipped")
		metrics.RecordWSError("recipient_policy")
		return DeliveryReport{}
	}
	payload, ok := encode(KindChat, event)
	if !ok {
		return DeliveryReport{}
	}
	return b.deliver(KindChat, payload, pred)
}

// BroadcastLocationUpdate sends event to every identified connection except sender.
func (b *Broadcaster) BroadcastLocationUpdate(sender Handle, event any) DeliveryReport {
	payload, ok := encode(KindLocation, event)
	if !ok {
		return DeliveryReport{}
	}
	return b.deliver(KindLocation, payload, func(c *Connection) bool {
		_, identified := c.UserID()
		return identified && c.handle != sender
	})
}

// Unicast sends event to h only. It reports whether the message was queued.
func (b *Broadcaster) Unicast(h Handle, event any) bool {
	c, ok := b.registry.Get(h)
	if !ok || c.State() != StateOpen {
		return false
	}
	payload, ok := encode(KindUnicast, event)
	if !ok {
		return false
	}
	if err := c.transport.Send(payload); err != nil {
		logging.Debug().Err(err).Uint64("conn_id", uint64(h)).Msg("unicast failed")
		metrics.RecordDeliveryFailures(KindUnicast, 1)
		return false
	}
	metrics.RecordWSSent(KindUnicast, 1)
	return true
}

func (b *Broadcaster) deliver(kind string, payload []byte, pred func(*Connection) bool) DeliveryReport {
	var report DeliveryReport
	b.registry.ForEach(func(c *Connection) {
		if !pred(c) {
			return
		}
		report.Attempted++
		if err := c.transport.Send(payload); err != nil {
			report.Failed = append(report.Failed, c.handle)
			userID, _ := c.UserID()
			logging.Warn().Err(err).
				Str("kind", kind).
				Uint64("conn_id", uint64(c.handle)).
				Int64("user_id", userID).
				Msg("broadcast delivery failed")
			return
		}
		report.Delivered++
	})

	metrics.RecordWSSent(kind, report.Delivered)
	metrics.RecordDeliveryFailures(kind, len(report.Failed))
	return report
}

func encode(kind string, event any) ([]byte, bool) {
	payload, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Str("kind", kind).Msg("failed to encode websocket event")
		metrics.RecordWSError("encode")
		return nil, false
	}
	return payload, true
}
