// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/ridematch/internal/middleware"
)

// Router wires handlers and middleware into a chi.Mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
	})

	// ========================
	// Realtime
	// ========================
	// Not rate limited per request; each connection carries its own limiter.
	r.Get("/api/ws", router.handler.WebSocket)

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/rides", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("rides"))

		r.Get("/nearby", router.handler.NearbyRides)
		r.Post("/match", router.handler.MatchRides)
		r.Post("/", router.handler.CreateRide)
		r.Get("/{id}", router.handler.GetRide)
		r.Patch("/{id}/status", router.handler.UpdateRideStatus)
		r.Get("/{id}/messages", router.handler.RideMessages)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("users"))

		r.Post("/", router.handler.CreateUser)
		r.Get("/{id}", router.handler.GetUser)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
