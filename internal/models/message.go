// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package models

import "time"

// Message is a single chat line in a ride conversation. Messages are immutable
// once created and ordered by CreatedAt, then ID, within a conversation.
type Message struct {
	ID          int64     `json:"id"`
	RideMatchID int64     `json:"rideMatchId"`
	SenderID    int64     `json:"senderId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateMessageParams carries the fields a caller supplies when posting a message.
type CreateMessageParams struct {
	RideMatchID int64
	SenderID    int64
	Content     string
}
