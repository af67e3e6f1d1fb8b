// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ridematch/config.yaml",
	"/etc/ridematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "",
		},
		Matching: MatchingConfig{
			RadiusDegrees:  0.1, // about 11 km of latitude
			SortByDistance: false,
		},
		Realtime: RealtimeConfig{
			PingInterval:        30 * time.Second,
			WriteWait:           10 * time.Second,
			MaxMessageSize:      64 * 1024,
			SendBuffer:          256,
			ChatScope:           "all",
			NearbyRadiusDegrees: 0.1,
			PresenceCellSize:    0.1,
			PresenceTTL:         10 * time.Minute,
			MessagesPerSecond:   20,
			MessageBurst:        40,
		},
		Cluster: ClusterConfig{
			Enabled:         false,
			URL:             "nats://127.0.0.1:4222",
			SubjectPrefix:   "ridematch.realtime",
			EmbeddedServer:  false,
			EmbeddedHost:    "127.0.0.1",
			EmbeddedPort:    4222,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			PasswordMinLength: 8,
			BcryptCost:        12,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Defaults returns the built-in configuration without reading a file or the
// environment. It is not validated.
func Defaults() *Config {
	return defaultConfig()
}

// Load builds the configuration from defaults, the optional config file and
// environment variables, in that order of increasing priority, and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"storage_backend": "storage.backend",
	"storage_path":    "storage.path",

	"match_radius_degrees":   "matching.radius_degrees",
	"match_sort_by_distance": "matching.sort_by_distance",

	"ws_ping_interval":       "realtime.ping_interval",
	"ws_write_wait":          "realtime.write_wait",
	"ws_max_message_size":    "realtime.max_message_size",
	"ws_send_buffer":         "realtime.send_buffer",
	"chat_scope":             "realtime.chat_scope",
	"nearby_radius_degrees":  "realtime.nearby_radius_degrees",
	"presence_cell_size":     "realtime.presence_cell_size",
	"presence_ttl":           "realtime.presence_ttl",
	"ws_messages_per_second": "realtime.messages_per_second",
	"ws_message_burst":       "realtime.message_burst",

	"nats_enabled":          "cluster.enabled",
	"nats_url":              "cluster.url",
	"nats_subject_prefix":   "cluster.subject_prefix",
	"nats_embedded":         "cluster.embedded_server",
	"nats_embedded_host":    "cluster.embedded_host",
	"nats_embedded_port":    "cluster.embedded_port",
	"nats_breaker_failures": "cluster.breaker_failures",
	"nats_breaker_timeout":  "cluster.breaker_timeout",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"password_min_length": "security.password_min_length",
	"bcrypt_cost":         "security.bcrypt_cost",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path.
// Unmapped names return "" and are skipped.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - MATCH_RADIUS_DEGREES -> matching.radius_degrees
//   - NATS_URL -> cluster.url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
