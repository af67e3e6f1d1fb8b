// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	t.Parallel()

	u := User{ID: 7, Name: "Ada", Email: "ada@example.com", PasswordHash: "secret-hash"}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
	if !strings.Contains(string(data), `"active":false`) {
		t.Errorf("expected active flag in JSON: %s", data)
	}
}

func TestUserCloneCopiesLocationAndPreferences(t *testing.T) {
	t.Parallel()

	u := User{
		ID:                 1,
		CurrentLocation:    &Location{Lat: 40, Lng: -74},
		ComfortPreferences: map[string]any{"music": "jazz"},
	}
	c := u.Clone()
	c.CurrentLocation.Lat = 0
	c.ComfortPreferences["music"] = "none"

	if u.CurrentLocation.Lat != 40 {
		t.Errorf("clone shares location pointer")
	}
	if u.ComfortPreferences["music"] != "jazz" {
		t.Errorf("clone shares preferences map")
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
