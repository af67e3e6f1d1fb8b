// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/validation"
)

func (h *Handler) sortByDefault() bool {
	return h.config != nil && h.config.Matching.SortByDistance
}

// NearbyRides handles GET /api/rides/nearby?location={"lat":..,"lng":..}&type=offer&radius=0.1&sort=distance.
// It writes a JSON array of active rides of the requested type whose route
// starts within radius degrees of location.
//
// @Summary Find nearby rides
// @Description Returns active rides of the given type whose route starts within radius degrees of location.
// @Description Results are ordered by id, or by distance from location when sort=distance.
// @Tags Rides
// @Produce json
// @Param location query string true "Center point as JSON, e.g. {\"lat\":40.7,\"lng\":-74.0}"
// @Param type query string true "Ride type" Enums(offer, request)
// @Param radius query number false "Search radius in degrees (defaults to matching.nearby_radius)" minimum(0)
// @Param sort query string false "Result order" Enums(distance, none)
// @Success 200 {array} models.Ride "Matching rides"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /rides/nearby [get]
func (h *Handler) NearbyRides(w http.ResponseWriter, r *http.Request) {
	q, err := parseNearbyQuery(r)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	rides, err := h.matcher.FindNearbyRides(
		r.Context(),
		q.Location.toModel(),
		q.Type,
		radiusOrZero(q.Radius),
		matchOptions(q.Sort, h.sortByDefault()),
	)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rides)
}

// MatchRides handles POST /api/rides/match with body
// {"route":{"start":..,"end":..,"waypoints":[..]},"type":"offer","radius":0.1,"sort":"distance"}.
// It writes a JSON array of active rides whose starts or ends are within radius.
//
// @Summary Match rides against a route
// @Description Returns active rides whose start is near the route start or whose end is near the route end.
// @Description An omitted type matches both offers and requests.
// @Tags Rides
// @Accept json
// @Produce json
// @Param request body matchRequest true "Route and match options"
// @Success 200 {array} models.Ride "Matching rides"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /rides/match [post]
func (h *Handler) MatchRides(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondStoreError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	rides, err := h.matcher.FindMatchingRides(
		r.Context(),
		req.Route.toModel(),
		req.Type,
		radiusOrZero(req.Radius),
		matchOptions(req.Sort, h.sortByDefault()),
	)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rides)
}

// CreateRide handles POST /api/rides. The owning user must exist.
//
// @Summary Create a ride
// @Description Stores a ride offer or request. Status defaults to active.
// @Tags Rides
// @Accept json
// @Produce json
// @Param request body createRideRequest true "Ride to create"
// @Success 201 {object} models.APIResponse{data=models.Ride} "Ride created"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 404 {object} models.APIResponse "User not found"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /rides [post]
func (h *Handler) CreateRide(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req createRideRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondStoreError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	if _, err := h.store.GetUser(r.Context(), req.UserID); err != nil {
		respondStoreError(w, r, err)
		return
	}

	ride, err := h.store.CreateRide(r.Context(), req.toParams())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("ride_id", ride.ID).
		Int64("user_id", ride.UserID).
		Str("type", string(ride.Type)).
		Msg("Ride created")

	respondData(w, http.StatusCreated, ride, start)
}

// GetRide handles GET /api/rides/{id}.
//
// @Summary Get a ride
// @Tags Rides
// @Produce json
// @Param id path int true "Ride ID"
// @Success 200 {object} models.APIResponse{data=models.Ride} "Ride retrieved"
// @Failure 400 {object} models.APIResponse "Invalid ride ID"
// @Failure 404 {object} models.APIResponse "Ride not found"
// @Router /rides/{id} [get]
func (h *Handler) GetRide(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := idParam(r, "id")
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	ride, err := h.store.GetRide(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, ride, start)
}

// UpdateRideStatus handles PATCH /api/rides/{id}/status with body {"status":"matched"}.
// Illegal transitions are rejected with 400.
//
// @Summary Update ride status
// @Description Moves a ride through its lifecycle. Completed and cancelled are terminal.
// @Tags Rides
// @Accept json
// @Produce json
// @Param id path int true "Ride ID"
// @Param request body updateRideStatusRequest true "New status"
// @Success 200 {object} models.APIResponse{data=models.Ride} "Status updated"
// @Failure 400 {object} models.APIResponse "Invalid status or illegal transition"
// @Failure 404 {object} models.APIResponse "Ride not found"
// @Router /rides/{id}/status [patch]
func (h *Handler) UpdateRideStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := idParam(r, "id")
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	var req updateRideStatusRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondStoreError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ride, err := h.store.UpdateRideStatus(r.Context(), id, req.Status)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("ride_id", ride.ID).
		Str("status", string(ride.Status)).
		Msg("Ride status updated")

	respondData(w, http.StatusOK, ride, start)
}

// RideMessages handles GET /api/rides/{id}/messages and writes the
// conversation as a JSON array ordered oldest first. An unknown ride id with
// no messages yields an empty array, since chat ids are not checked against rides.
//
// @Summary List ride messages
// @Tags Rides
// @Produce json
// @Param id path int true "Ride match ID"
// @Success 200 {array} models.Message "Conversation, oldest first"
// @Failure 400 {object} models.APIResponse "Invalid ride ID"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /rides/{id}/messages [get]
func (h *Handler) RideMessages(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	messages, err := h.store.ListMessages(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messages)
}
