// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/ridematch/internal/models"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type userRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Seats    int    `json:"seats" validate:"gte=0,lte=8"`
	Internal string `json:"-" validate:"omitempty,max=3"`
}

type rideRequest struct {
	UserID int64             `json:"userId" validate:"gt=0"`
	Type   models.RideType   `json:"type" validate:"required,ridetype"`
	Status models.RideStatus `json:"status" validate:"omitempty,ridestatus"`
	Lat    float64           `json:"lat" validate:"finite"`
	Lng    float64           `json:"lng" validate:"finite"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{
			name:  "user request",
			input: &userRequest{Name: "Ada", Email: "ada@example.com", Password: "longenough", Seats: 3},
		},
		{
			name:  "offer without status",
			input: &rideRequest{UserID: 1, Type: models.RideTypeOffer, Lat: 40.7, Lng: -74},
		},
		{
			name:  "request with status",
			input: &rideRequest{UserID: 2, Type: models.RideTypeRequest, Status: models.RideStatusMatched},
		},
		{
			name:  "coordinates outside degree range are still finite",
			input: &rideRequest{UserID: 2, Type: models.RideTypeRequest, Lat: 1000, Lng: -1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() error = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing name",
			input:     &userRequest{Email: "a@b.co", Password: "longenough"},
			wantField: "name",
			wantTag:   "required",
			wantMsg:   "name is required",
		},
		{
			name:      "bad email",
			input:     &userRequest{Name: "A", Email: "nope", Password: "longenough"},
			wantField: "email",
			wantTag:   "email",
			wantMsg:   "email must be a valid email address",
		},
		{
			name:      "short password",
			input:     &userRequest{Name: "A", Email: "a@b.co", Password: "short"},
			wantField: "password",
			wantTag:   "min",
			wantMsg:   "password must be at least 8 characters",
		},
		{
			name:      "too many seats",
			input:     &userRequest{Name: "A", Email: "a@b.co", Password: "longenough", Seats: 9},
			wantField: "seats",
			wantTag:   "lte",
			wantMsg:   "seats must be less than or equal to 8",
		},
		{
			name:      "json dash falls back to struct field name",
			input:     &userRequest{Name: "A", Email: "a@b.co", Password: "longenough", Internal: "abcd"},
			wantField: "Internal",
			wantTag:   "max",
			wantMsg:   "Internal must be at most 3 characters",
		},
		{
			name:      "unknown ride type",
			input:     &rideRequest{UserID: 1, Type: "carpool"},
			wantField: "type",
			wantTag:   "ridetype",
			wantMsg:   "type must be offer or request",
		},
		{
			name:      "unknown ride status",
			input:     &rideRequest{UserID: 1, Type: models.RideTypeOffer, Status: "parked"},
			wantField: "status",
			wantTag:   "ridestatus",
		},
		{
			name:      "NaN latitude",
			input:     &rideRequest{UserID: 1, Type: models.RideTypeOffer, Lat: math.NaN()},
			wantField: "lat",
			wantTag:   "finite",
			wantMsg:   "lat must be a finite number",
		},
		{
			name:      "infinite longitude",
			input:     &rideRequest{UserID: 1, Type: models.RideTypeOffer, Lng: math.Inf(-1)},
			wantField: "lng",
			wantTag:   "finite",
		},
		{
			name:      "zero user id",
			input:     &rideRequest{Type: models.RideTypeOffer},
			wantField: "userId",
			wantTag:   "gt",
			wantMsg:   "userId must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_UnwrapsToInvalidArgument(t *testing.T) {
	verr := ValidateStruct(&rideRequest{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	var err error = verr
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("errors.Is(%v, ErrInvalidArgument) = false", err)
	}
}

// ===================================================================================================
// APIError Conversion Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	verr := ValidateStruct(&rideRequest{UserID: 1, Type: "bus"})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "type must be offer or request" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "type" {
		t.Errorf("Details[field] = %v, want type", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	verr := ValidateStruct(&userRequest{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(verr.Errors()), verr)
	}

	apiErr := verr.ToAPIError()
	for _, field := range []string{"name:", "email:", "password:"} {
		if !strings.Contains(apiErr.Message, field) {
			t.Errorf("Message %q does not mention %s", apiErr.Message, field)
		}
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("Details[fields] = %#v, want 3 entries", apiErr.Details["fields"])
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", verr.Error())
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
	if (&RequestValidationError{}).Error() != "validation failed" {
		t.Error("empty Error() should be generic")
	}
}

// ===================================================================================================
// Nested Validation Tests
// ===================================================================================================

type pointRequest struct {
	Lat float64 `json:"lat" validate:"finite"`
	Lng float64 `json:"lng" validate:"finite"`
}

type routeRequest struct {
	Start     pointRequest   `json:"start" validate:"required"`
	Waypoints []pointRequest `json:"waypoints" validate:"dive"`
}

func TestNestedStructValidation(t *testing.T) {
	ok := &routeRequest{
		Start:     pointRequest{Lat: 1, Lng: 2},
		Waypoints: []pointRequest{{Lat: 3, Lng: 4}},
	}
	if err := ValidateStruct(ok); err != nil {
		t.Fatalf("valid route rejected: %v", err)
	}

	bad := &routeRequest{
		Start:     pointRequest{Lat: 1, Lng: 2},
		Waypoints: []pointRequest{{Lat: 3, Lng: 4}, {Lat: math.NaN(), Lng: 0}},
	}
	err := ValidateStruct(bad)
	if err == nil {
		t.Fatal("NaN waypoint accepted")
	}
	if got := err.Errors()[0].Field(); got != "lat" {
		t.Errorf("Field() = %q, want lat", got)
	}
}
