// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package models

import (
	"strings"
	"time"
)

// User is a rider or driver account.
//
// PasswordHash is opaque to every layer except account creation and is never
// serialized to clients.
type User struct {
	ID                 int64          `json:"id"`
	Name               string         `json:"name"`
	Email              string         `json:"email"`
	PasswordHash       string         `json:"-"`
	Role               string         `json:"role,omitempty"`
	Avatar             string         `json:"avatar,omitempty"`
	CurrentLocation    *Location      `json:"currentLocation,omitempty"`
	Active             bool           `json:"active"`
	ComfortPreferences map[string]any `json:"comfortPreferences,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// Clone returns a deep copy of u. ComfortPreferences is copied one level deep.
func (u User) Clone() User {
	out := u
	if u.CurrentLocation != nil {
		loc := *u.CurrentLocation
		out.CurrentLocation = &loc
	}
	if u.ComfortPreferences != nil {
		out.ComfortPreferences = make(map[string]any, len(u.ComfortPreferences))
		for k, v := range u.ComfortPreferences {
			out.ComfortPreferences[k] = v
		}
	}
	return out
}

// CreateUserParams carries the fields a caller supplies when creating a user.
type CreateUserParams struct {
	Name               string
	Email              string
	PasswordHash       string
	Role               string
	Avatar             string
	ComfortPreferences map[string]any
}

// NormalizeEmail folds an address for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
