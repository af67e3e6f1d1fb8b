// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/ridematch/internal/models"
)

// ConversationStore is the store subset StoreParticipants reads.
type ConversationStore interface {
	GetRide(ctx context.Context, id int64) (models.Ride, error)
	ListMessages(ctx context.Context, rideMatchID int64) ([]models.Message, error)
}

// StoreParticipants resolves the people in a ride conversation: the ride's
// owner, when the ride exists, and everyone who has posted to it.
type StoreParticipants struct {
	Store ConversationStore
}

// Participants implements websocket.ParticipantResolver.
func (s StoreParticipants) Participants(ctx context.Context, rideMatchID int64) ([]int64, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	add := func(id int64) {
		if _, ok := seen[id]; ok || id <= 0 {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	ride, err := s.Store.GetRide(ctx, rideMatchID)
	switch {
	case err == nil:
		add(ride.UserID)
	case errors.Is(err, models.ErrNotFound):
	default:
		return nil, fmt.Errorf("get ride: %w", err)
	}

	msgs, err := s.Store.ListMessages(ctx, rideMatchID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	for _, m := range msgs {
		add(m.SenderID)
	}
	return ids, nil
}
