// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/ridematch/docs"
	"github.com/tomtom215/ridematch/internal/api"
	"github.com/tomtom215/ridematch/internal/config"
	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/matcher"
	"github.com/tomtom215/ridematch/internal/realtime"
	"github.com/tomtom215/ridematch/internal/store"
	"github.com/tomtom215/ridematch/internal/supervisor"
	"github.com/tomtom215/ridematch/internal/supervisor/services"
	"github.com/tomtom215/ridematch/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("addr", cfg.Addr()).
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Backend).
		Bool("cluster", cfg.Cluster.Enabled).
		Msg("Starting ridematch")

	if cfg.IsProduction() && cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is disabled in production")
	}

	st, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	presence := realtime.NewPresence(cfg.Realtime.PresenceCellSize)
	seeded, err := presence.Load(ctx, st)
	if err != nil {
		return err
	}
	logging.Info().Int("users", seeded).Msg("Presence index loaded")

	registry := websocket.NewRegistry()
	policy, err := websocket.PolicyByName(cfg.Realtime.ChatScope, realtime.StoreParticipants{Store: st})
	if err != nil {
		return err
	}
	broadcaster := websocket.NewBroadcaster(registry, policy)
	dispatcher := realtime.NewDispatcher(st, registry, broadcaster, presence, realtime.Config{
		NearbyRadius: cfg.Realtime.NearbyRadiusDegrees,
	})
	liveness := websocket.NewLivenessMonitor(registry, cfg.Realtime.PingInterval)

	handler := api.NewHandler(cfg, st, matcher.New(st, cfg.Matching.RadiusDegrees), dispatcher, liveness)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if err := initCluster(cfg, tree, dispatcher, handler); err != nil {
		return err
	}

	tree.AddRealtimeService(liveness)
	if cfg.Realtime.PresenceTTL > 0 {
		tree.AddRealtimeService(realtime.NewPresenceSweeper(presence, registry, cfg.Realtime.PresenceTTL))
	}
	tree.AddRealtimeService(services.NewConnectionDrainService(registry))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Dur("ping_interval", liveness.Interval()).Msg("Services added to supervisor tree")

	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
