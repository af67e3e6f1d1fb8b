// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package main

import (
	"fmt"

	"github.com/tomtom215/ridematch/internal/api"
	"github.com/tomtom215/ridematch/internal/config"
	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/realtime"
	"github.com/tomtom215/ridematch/internal/supervisor"
	"github.com/tomtom215/ridematch/internal/supervisor/services"
)

// initCluster starts the optional embedded NATS server and adds the relay
// bridge to the tree. It is a no-op unless cluster.enabled is set.
func initCluster(cfg *config.Config, tree *supervisor.SupervisorTree, dispatcher *realtime.Dispatcher, handler *api.Handler) error {
	if !cfg.Cluster.Enabled {
		logging.Info().Msg("Cluster relay disabled (NATS_ENABLED=false)")
		return nil
	}

	url := cfg.Cluster.URL
	if cfg.Cluster.EmbeddedServer {
		ns, err := realtime.StartEmbeddedNATS(cfg.Cluster.EmbeddedHost, cfg.Cluster.EmbeddedPort)
		if err != nil {
			return fmt.Errorf("start embedded NATS: %w", err)
		}
		url = ns.ClientURL()
		tree.AddInfraService(services.NewEmbeddedServerService(ns))
		logging.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	bridge := realtime.NewClusterBridge(realtime.BridgeConfig{
		URL:             url,
		SubjectPrefix:   cfg.Cluster.SubjectPrefix,
		BreakerFailures: cfg.Cluster.BreakerFailures,
		BreakerTimeout:  cfg.Cluster.BreakerTimeout,
	}, dispatcher)

	dispatcher.SetPublisher(bridge)
	handler.SetCluster(bridge)
	tree.AddRealtimeService(bridge)

	logging.Info().
		Str("url", url).
		Str("prefix", cfg.Cluster.SubjectPrefix).
		Str("origin", bridge.Origin()).
		Msg("Cluster relay enabled")
	return nil
}
