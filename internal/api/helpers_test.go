// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/ridematch/internal/config"
	"github.com/tomtom215/ridematch/internal/matcher"
	"github.com/tomtom215/ridematch/internal/models"
	"github.com/tomtom215/ridematch/internal/store"
)

// testAPI bundles a router over an in-memory store.
type testAPI struct {
	cfg     *config.Config
	store   store.Storage
	handler *Handler
	router  http.Handler
}

func newTestAPI(t *testing.T, opts ...func(*config.Config)) *testAPI {
	t.Helper()

	cfg := config.Defaults()
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.Security.RateLimitDisabled = true
	for _, opt := range opts {
		opt(cfg)
	}

	st := store.NewMemory()
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(cfg, st, matcher.New(st, cfg.Matching.RadiusDegrees), nil, nil)
	mw := NewChiMiddleware(ChiMiddlewareConfigFromSecurity(cfg.Security))

	return &testAPI{
		cfg:     cfg,
		store:   st,
		handler: h,
		router:  NewRouter(h, mw).SetupChi(),
	}
}

func (a *testAPI) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createUser(t *testing.T, name, email string) models.User {
	t.Helper()
	u, err := a.store.CreateUser(context.Background(), models.CreateUserParams{Name: name, Email: email})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func (a *testAPI) createRide(t *testing.T, p models.CreateRideParams) models.Ride {
	t.Helper()
	r, err := a.store.CreateRide(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	return r
}

func route(startLat, startLng, endLat, endLng float64) models.Route {
	return models.Route{
		Start: models.Location{Lat: startLat, Lng: startLng},
		End:   models.Location{Lat: endLat, Lng: endLng},
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

// envelope mirrors models.APIResponse with a typed payload.
type envelope[T any] struct {
	Status string           `json:"status"`
	Data   T                `json:"data"`
	Error  *models.APIError `json:"error"`
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decodeBody[envelope[json.RawMessage]](t, rec)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q (message %q)", env.Error.Code, code, env.Error.Message)
	}
}

// failingRides makes the matcher's store read fail.
type failingRides struct{}

func (failingRides) ListActiveRides(context.Context, models.RideType) ([]models.Ride, error) {
	return nil, errors.New("disk on fire")
}

func rideIDs(rides []models.Ride) []int64 {
	ids := make([]int64, len(rides))
	for i, r := range rides {
		ids[i] = r.ID
	}
	return ids
}
