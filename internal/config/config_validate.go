// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package config

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/ridematch/internal/geo"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validStorageBackends = map[string]bool{
	"memory": true,
	"badger": true,
}

var validChatScopes = map[string]bool{
	"all":          true,
	"participants": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateStorage,
		c.validateMatching,
		c.validateRealtime,
		c.validateCluster,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	return nil
}

// validateStorage validates the entity store selection
func (c *Config) validateStorage() error {
	if !validStorageBackends[c.Storage.Backend] {
		return fmt.Errorf("STORAGE_BACKEND must be one of: memory, badger (got %q)", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateMatching() error {
	if !positiveFinite(c.Matching.RadiusDegrees) {
		return fmt.Errorf("MATCH_RADIUS_DEGREES must be a positive number of degrees")
	}
	if c.Matching.RadiusDegrees > 180 {
		return fmt.Errorf("MATCH_RADIUS_DEGREES must not exceed 180")
	}
	return nil
}

// validateRealtime validates websocket settings
func (c *Config) validateRealtime() error {
	r := c.Realtime
	if r.PingInterval < time.Second {
		return fmt.Errorf("WS_PING_INTERVAL must be at least 1s")
	}
	if r.WriteWait <= 0 {
		return fmt.Errorf("WS_WRITE_WAIT must be positive")
	}
	if r.MaxMessageSize <= 0 {
		return fmt.Errorf("WS_MAX_MESSAGE_SIZE must be positive")
	}
	if r.SendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive")
	}
	if !validChatScopes[r.ChatScope] {
		return fmt.Errorf("CHAT_SCOPE must be one of: all, participants (got %q)", r.ChatScope)
	}
	if !positiveFinite(r.NearbyRadiusDegrees) {
		return fmt.Errorf("NEARBY_RADIUS_DEGREES must be a positive number of degrees")
	}
	if !positiveFinite(r.PresenceCellSize) {
		return fmt.Errorf("PRESENCE_CELL_SIZE must be a positive number of degrees")
	}
	if r.NearbyRadiusDegrees/r.PresenceCellSize > geo.MaxCellReach {
		return fmt.Errorf("NEARBY_RADIUS_DEGREES must be at most %d times PRESENCE_CELL_SIZE (got %g / %g)",
			geo.MaxCellReach, r.NearbyRadiusDegrees, r.PresenceCellSize)
	}
	if r.PresenceTTL < 0 {
		return fmt.Errorf("PRESENCE_TTL must not be negative")
	}
	if r.MessagesPerSecond < 0 || math.IsNaN(r.MessagesPerSecond) {
		return fmt.Errorf("WS_MESSAGES_PER_SECOND must not be negative")
	}
	if r.MessagesPerSecond > 0 && r.MessageBurst < 1 {
		return fmt.Errorf("WS_MESSAGE_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

// validateCluster validates the NATS relay (only if enabled)
func (c *Config) validateCluster() error {
	if !c.Cluster.Enabled {
		return nil
	}
	if c.Cluster.SubjectPrefix == "" {
		return fmt.Errorf("NATS_SUBJECT_PREFIX is required when NATS_ENABLED=true")
	}
	if c.Cluster.EmbeddedServer {
		if c.Cluster.EmbeddedPort < -1 || c.Cluster.EmbeddedPort > 65535 {
			return fmt.Errorf("NATS_EMBEDDED_PORT must be between -1 and 65535")
		}
		return nil
	}
	if c.Cluster.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true and NATS_EMBEDDED=false")
	}
	if err := validateNATSURL(c.Cluster.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	if c.Security.PasswordMinLength < 6 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be at least 6")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// validateCORS rejects wildcard CORS in production.
func (c *Config) validateCORS() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://app.example.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validateRateLimits validates rate limiting bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000")
	}
	if c.Security.RateLimitWindow < time.Second || c.Security.RateLimitWindow > time.Hour {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between 1s and 1h")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
