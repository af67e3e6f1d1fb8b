// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ridematch/internal/matcher"
	"github.com/tomtom215/ridematch/internal/models"
)

// Sort values accepted by the matching endpoints.
const (
	sortDistance = "distance"
	sortNone     = "none"
)

// locationRequest uses pointers so a missing coordinate is distinguishable from 0.
type locationRequest struct {
	Lat *float64 `json:"lat" validate:"required,finite"`
	Lng *float64 `json:"lng" validate:"required,finite"`
}

func (l locationRequest) toModel() models.Location {
	return models.Location{Lat: *l.Lat, Lng: *l.Lng}
}

type routeRequest struct {
	Start     *locationRequest  `json:"start" validate:"required"`
	End       *locationRequest  `json:"end" validate:"required"`
	Waypoints []locationRequest `json:"waypoints" validate:"omitempty,dive"`
}

func (rr routeRequest) toModel() models.Route {
	route := models.Route{
		Start:     rr.Start.toModel(),
		End:       rr.End.toModel(),
		Waypoints: make([]models.Location, 0, len(rr.Waypoints)),
	}
	for _, wp := range rr.Waypoints {
		route.Waypoints = append(route.Waypoints, wp.toModel())
	}
	return route
}

// nearbyQuery is GET /api/rides/nearby after query parsing.
type nearbyQuery struct {
	Location *locationRequest `json:"location" validate:"required"`
	Type     models.RideType  `json:"type" validate:"required,ridetype"`
	Radius   *float64         `json:"radius" validate:"omitempty,gt=0,finite"`
	Sort     string           `json:"sort" validate:"omitempty,oneof=distance none"`
}

// parseNearbyQuery reads location (JSON), type, radius and sort from the query
// string. Syntax errors wrap models.ErrInvalidArgument; field rules are left
// to the validator.
func parseNearbyQuery(r *http.Request) (nearbyQuery, error) {
	q := r.URL.Query()
	var out nearbyQuery

	if raw := strings.TrimSpace(q.Get("location")); raw != "" {
		var loc locationRequest
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			return out, fmt.Errorf("location must be a JSON object {\"lat\":..,\"lng\":..}: %w", models.ErrInvalidArgument)
		}
		out.Location = &loc
	}

	out.Type = models.RideType(strings.TrimSpace(q.Get("type")))

	if raw := strings.TrimSpace(q.Get("radius")); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, fmt.Errorf("radius must be a number: %w", models.ErrInvalidArgument)
		}
		out.Radius = &radius
	}

	out.Sort = strings.TrimSpace(q.Get("sort"))
	return out, nil
}

// matchRequest is the POST /api/rides/match body. Type is optional.
type matchRequest struct {
	Route  *routeRequest   `json:"route" validate:"required"`
	Type   models.RideType `json:"type" validate:"omitempty,ridetype"`
	Radius *float64        `json:"radius" validate:"omitempty,gt=0,finite"`
	Sort   string          `json:"sort" validate:"omitempty,oneof=distance none"`
}

// matchOptions resolves the sort parameter against the configured default.
func matchOptions(sort string, sortByDefault bool) matcher.Options {
	switch sort {
	case sortDistance:
		return matcher.Options{SortByDistance: true}
	case sortNone:
		return matcher.Options{}
	default:
		return matcher.Options{SortByDistance: sortByDefault}
	}
}

func radiusOrZero(radius *float64) float64 {
	if radius == nil {
		return 0
	}
	return *radius
}

type createRideRequest struct {
	UserID         int64             `json:"userId" validate:"gt=0"`
	Type           models.RideType   `json:"type" validate:"required,ridetype"`
	Status         models.RideStatus `json:"status" validate:"omitempty,ridestatus"`
	Route          *routeRequest     `json:"route" validate:"required"`
	VehicleType    string            `json:"vehicleType" validate:"max=64"`
	IsPooling      bool              `json:"isPooling"`
	AvailableSeats int               `json:"availableSeats" validate:"gte=0,lte=16"`
	Price          float64           `json:"price" validate:"gte=0,finite"`
}

func (c createRideRequest) toParams() models.CreateRideParams {
	return models.CreateRideParams{
		UserID:         c.UserID,
		Type:           c.Type,
		Status:         c.Status,
		Route:          c.Route.toModel(),
		VehicleType:    c.VehicleType,
		IsPooling:      c.IsPooling,
		AvailableSeats: c.AvailableSeats,
		Price:          c.Price,
	}
}

type updateRideStatusRequest struct {
	Status models.RideStatus `json:"status" validate:"required,ridestatus"`
}

type createUserRequest struct {
	Name               string         `json:"name" validate:"required,max=100"`
	Email              string         `json:"email" validate:"required,email,max=254"`
	Password           string         `json:"password" validate:"required,max=72"`
	Role               string         `json:"role" validate:"omitempty,oneof=rider driver"`
	Avatar             string         `json:"avatar" validate:"omitempty,url,max=2048"`
	ComfortPreferences map[string]any `json:"comfortPreferences"`
}
