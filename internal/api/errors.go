// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/ridematch/internal/models"
)

// Error codes written in APIError.Code.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// ErrBodyTooLarge is returned when a request body exceeds maxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// statusForError maps a store or matcher error to an HTTP status and code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, ErrCodeBadRequest
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
