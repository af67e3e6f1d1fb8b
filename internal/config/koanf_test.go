// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateConfig points CONFIG_PATH at a missing file and moves into an empty
// directory so no stray config.yaml is picked up.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Chdir(dir)
	return dir
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Matching.RadiusDegrees != 0.1 {
		t.Errorf("Matching.RadiusDegrees = %v, want 0.1", cfg.Matching.RadiusDegrees)
	}
	if cfg.Realtime.PingInterval != 30*time.Second {
		t.Errorf("Realtime.PingInterval = %v, want 30s", cfg.Realtime.PingInterval)
	}
	if cfg.Realtime.ChatScope != "all" {
		t.Errorf("Realtime.ChatScope = %q, want all", cfg.Realtime.ChatScope)
	}
	if cfg.Cluster.Enabled {
		t.Error("Cluster.Enabled should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 5000 {
		t.Errorf("server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Addr() != "0.0.0.0:5000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("MATCH_RADIUS_DEGREES", "0.25")
	t.Setenv("MATCH_SORT_BY_DISTANCE", "true")
	t.Setenv("WS_PING_INTERVAL", "15s")
	t.Setenv("CHAT_SCOPE", "participants")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://nats.internal:4222")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SOME_UNRELATED_VAR", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Matching.RadiusDegrees != 0.25 || !cfg.Matching.SortByDistance {
		t.Errorf("Matching = %+v", cfg.Matching)
	}
	if cfg.Realtime.PingInterval != 15*time.Second {
		t.Errorf("Realtime.PingInterval = %v", cfg.Realtime.PingInterval)
	}
	if cfg.Realtime.ChatScope != "participants" {
		t.Errorf("Realtime.ChatScope = %q", cfg.Realtime.ChatScope)
	}
	if !cfg.Cluster.Enabled || cfg.Cluster.URL != "nats://nats.internal:4222" {
		t.Errorf("Cluster = %+v", cfg.Cluster)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "ridematch.yaml")
	content := `
server:
  port: 9090
matching:
  radius_degrees: 0.05
realtime:
  ping_interval: 45s
  nearby_radius_degrees: 0.02
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
	if cfg.Matching.RadiusDegrees != 0.05 {
		t.Errorf("RadiusDegrees = %v, want 0.05", cfg.Matching.RadiusDegrees)
	}
	if cfg.Realtime.PingInterval != 45*time.Second || cfg.Realtime.NearbyRadiusDegrees != 0.02 {
		t.Errorf("Realtime = %+v", cfg.Realtime)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
	if cfg.Realtime.SendBuffer != 256 {
		t.Errorf("unset field lost its default: SendBuffer = %d", cfg.Realtime.SendBuffer)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	isolateConfig(t)
	t.Setenv("CHAT_SCOPE", "everyone")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unknown chat scope")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"HTTP_PORT":            "server.port",
		"MATCH_RADIUS_DEGREES": "matching.radius_degrees",
		"NATS_URL":             "cluster.url",
		"cors_origins":         "security.cors_origins",
		"PATH":                 "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
