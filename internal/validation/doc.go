// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

// Package validation provides request validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata, so concurrent use from HTTP handlers is cheap. Field names in
// error messages come from json tags so clients see the names they sent.
//
// # Custom Tags
//
//   - finite: float must not be NaN or an infinity
//   - ridetype: one of "offer" or "request"
//   - ridestatus: one of the ride lifecycle statuses
//
// # Usage
//
//	type createRideRequest struct {
//	    UserID int64           `json:"userId" validate:"gt=0"`
//	    Type   models.RideType `json:"type" validate:"required,ridetype"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
//
// RequestValidationError unwraps to models.ErrInvalidArgument, so callers
// that only classify errors can use errors.Is.
package validation
