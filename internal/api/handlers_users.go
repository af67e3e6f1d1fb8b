// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/ridematch/internal/config"
	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/models"
	"github.com/tomtom215/ridematch/internal/validation"
)

func (h *Handler) securityConfig() config.SecurityConfig {
	if h.config == nil {
		return config.SecurityConfig{PasswordMinLength: 8, BcryptCost: bcrypt.DefaultCost}
	}
	return h.config.Security
}

// CreateUser handles POST /api/users. The password is checked against the
// configured policy and stored only as a bcrypt hash. A duplicate email,
// compared case-insensitively, is a 409.
//
// @Summary Create a user
// @Description Registers a rider or driver. The password must satisfy the configured policy.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body createUserRequest true "User to create"
// @Success 201 {object} models.APIResponse{data=models.User} "User created"
// @Failure 400 {object} models.APIResponse "Invalid request body or weak password"
// @Failure 409 {object} models.APIResponse "Email already registered"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req createUserRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondStoreError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	sec := h.securityConfig()
	if err := sec.PasswordPolicy().Validate(req.Password, req.Email); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), sec.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "password must be at most 72 bytes", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal server error", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), models.CreateUserParams{
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       string(hash),
		Role:               req.Role,
		Avatar:             req.Avatar,
		ComfortPreferences: req.ComfortPreferences,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", user.ID).
		Str("email", logging.SanitizeEmail(user.Email)).
		Msg("User created")

	respondData(w, http.StatusCreated, user, start)
}

// GetUser handles GET /api/users/{id}. The password hash is never serialized.
//
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse{data=models.User} "User retrieved"
// @Failure 400 {object} models.APIResponse "Invalid user ID"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := idParam(r, "id")
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, user, start)
}
