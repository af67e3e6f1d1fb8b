// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Matching MatchingConfig `koanf:"matching"`
	Realtime RealtimeConfig `koanf:"realtime"`
	Cluster  ClusterConfig  `koanf:"cluster"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// StorageConfig selects the entity store backend.
type StorageConfig struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend"`

	// Path is the badger data directory. Empty runs badger in memory.
	Path string `koanf:"path"`
}

// MatchingConfig tunes the ride matcher.
type MatchingConfig struct {
	// RadiusDegrees is the default proximity threshold when a request omits one.
	RadiusDegrees float64 `koanf:"radius_degrees"`

	// SortByDistance orders results nearest first unless a request says otherwise.
	SortByDistance bool `koanf:"sort_by_distance"`
}

// RealtimeConfig tunes websocket sessions.
type RealtimeConfig struct {
	PingInterval   time.Duration `koanf:"ping_interval"`
	WriteWait      time.Duration `koanf:"write_wait"`
	MaxMessageSize int64         `koanf:"max_message_size"`
	SendBuffer     int           `koanf:"send_buffer"`

	// ChatScope is "all" (every open connection) or "participants".
	ChatScope string `koanf:"chat_scope"`

	NearbyRadiusDegrees float64 `koanf:"nearby_radius_degrees"`
	PresenceCellSize    float64 `koanf:"presence_cell_size"`

	// PresenceTTL drops presence entries not refreshed for this long whose
	// user has no local connection. Zero keeps entries until disconnect.
	PresenceTTL time.Duration `koanf:"presence_ttl"`

	// Inbound messages per second per connection; 0 disables the limit.
	MessagesPerSecond float64 `koanf:"messages_per_second"`
	MessageBurst      int     `koanf:"message_burst"`
}

// ClusterConfig configures the NATS relay between instances.
type ClusterConfig struct {
	Enabled       bool   `koanf:"enabled"`
	URL           string `koanf:"url"`
	SubjectPrefix string `koanf:"subject_prefix"`

	// EmbeddedServer starts an in-process NATS server and relays through it.
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedHost   string `koanf:"embedded_host"`
	EmbeddedPort   int    `koanf:"embedded_port"`

	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds CORS, rate limiting and account settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	PasswordMinLength int `koanf:"password_min_length"`
	BcryptCost        int `koanf:"bcrypt_cost"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller adds file and line to every entry.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
