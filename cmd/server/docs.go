// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

// General API information for swag. Regenerate the docs package with:
//
//	swag init -g cmd/server/docs.go -o docs --parseInternal
//
// @title Ridematch API
// @version 1.0
// @description Ride matching and realtime presence engine.
// @description
// @description ## Features
// @description
// @description - **Proximity search**: active rides whose route starts near a point
// @description - **Route matching**: rides whose start or end lies near a given route
// @description - **Ride lifecycle**: active, matched, in_progress, completed, cancelled
// @description - **Realtime**: websocket chat and live location broadcasts on `/api/ws`
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address on `/api/rides` and `/api/users`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "error": {
// @description     "code": "VALIDATION_ERROR",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/ridematch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @tag.name Core
// @tag.description Health and liveness endpoints
//
// @tag.name Rides
// @tag.description Ride offers and requests, proximity search and route matching
//
// @tag.name Users
// @tag.description Rider and driver accounts
package main
