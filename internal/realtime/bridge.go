// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/metrics"
	"github.com/tomtom215/ridematch/internal/models"
)

// Relay kinds, used in subjects and metric labels.
const (
	relayChat     = "chat"
	relayLocation = "location"
)

// ErrBridgeNotConnected is returned when publishing before Connect.
var ErrBridgeNotConnected = errors.New("cluster bridge not connected")

// RemoteSink applies broadcasts relayed from other instances.
type RemoteSink interface {
	ApplyRemoteChat(ctx context.Context, msg models.Message, ev ChatBroadcast)
	ApplyRemoteLocation(ev LocationBroadcast)
}

// BridgeConfig configures a ClusterBridge.
type BridgeConfig struct {
	URL           string
	SubjectPrefix string
	Name          string

	// Consecutive publish failures before the breaker opens, and how long it stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// relayEnvelope is the NATS payload.
type relayEnvelope struct {
	Origin   string             `json:"origin"`
	Chat     *ChatBroadcast     `json:"chat,omitempty"`
	Location *LocationBroadcast `json:"location,omitempty"`
}

// ClusterBridge relays chat and location broadcasts between instances over
// NATS core subjects. Delivery is at most once; a missed relay only means a
// remote client misses one live update.
type ClusterBridge struct {
	cfg     BridgeConfig
	origin  string
	sink    RemoteSink
	breaker *gobreaker.CircuitBreaker[any]

	mu   sync.RWMutex
	nc   *nats.Conn
	subs []*nats.Subscription
}

// NewClusterBridge returns an unconnected bridge that hands remote events to sink.
func NewClusterBridge(cfg BridgeConfig, sink RemoteSink) *ClusterBridge {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "ridematch.realtime"
	}
	if cfg.Name == "" {
		cfg.Name = "ridematch"
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	b := &ClusterBridge{
		cfg:    cfg,
		origin: uuid.NewString(),
		sink:   sink,
	}
	b.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "cluster-bridge",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.ClusterBreakerState.Set(float64(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return b
}

// Origin returns this instance's relay id.
func (b *ClusterBridge) Origin() string {
	return b.origin
}

func (b *ClusterBridge) subject(kind string) string {
	return b.cfg.SubjectPrefix + "." + kind
}

// Connect dials NATS and subscribes to the relay subjects.
func (b *ClusterBridge) Connect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nc != nil {
		return nil
	}

	nc, err := nats.Connect(b.cfg.URL,
		nats.Name(b.cfg.Name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("cluster bridge disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logging.Info().Str("url", c.ConnectedUrl()).Msg("cluster bridge reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	var subs []*nats.Subscription
	for _, kind := range []string{relayChat, relayLocation} {
		sub, err := nc.Subscribe(b.subject(kind), b.receive)
		if err != nil {
			nc.Close()
			return fmt.Errorf("subscribe %s: %w", b.subject(kind), err)
		}
		subs = append(subs, sub)
	}
	if nc.IsConnected() {
		if err := nc.FlushTimeout(5 * time.Second); err != nil {
			logging.Warn().Err(err).Msg("cluster bridge flush failed")
		}
	}

	b.nc = nc
	b.subs = subs
	logging.Info().Str("url", b.cfg.URL).Str("prefix", b.cfg.SubjectPrefix).Str("origin", b.origin).Msg("cluster bridge connected")
	return nil
}

// Close drains subscriptions and closes the connection.
func (b *ClusterBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nc == nil {
		return
	}
	for _, sub := range b.subs {
		_ = sub.Unsubscribe() //nolint:errcheck // connection is closing anyway
	}
	b.nc.Close()
	b.nc = nil
	b.subs = nil
}

// Serve connects and blocks until ctx is done. It implements suture.Service.
func (b *ClusterBridge) Serve(ctx context.Context) error {
	if err := b.Connect(); err != nil {
		return err
	}
	<-ctx.Done()
	b.Close()
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (b *ClusterBridge) String() string {
	return "cluster-bridge"
}

// Status reports connectivity and breaker state.
func (b *ClusterBridge) Status() models.ClusterStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return models.ClusterStatus{
		Connected:    b.nc != nil && b.nc.IsConnected(),
		BreakerState: b.breaker.State().String(),
	}
}

// PublishChat implements Publisher.
func (b *ClusterBridge) PublishChat(_ context.Context, _ models.Message, ev ChatBroadcast) {
	b.publish(relayChat, relayEnvelope{Origin: b.origin, Chat: &ev})
}

// PublishLocation implements Publisher.
func (b *ClusterBridge) PublishLocation(_ context.Context, ev LocationBroadcast) {
	b.publish(relayLocation, relayEnvelope{Origin: b.origin, Location: &ev})
}

func (b *ClusterBridge) publish(kind string, env relayEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		metrics.RecordClusterPublish(kind, err)
		logging.Error().Err(err).Str("kind", kind).Msg("failed to encode relay envelope")
		return
	}

	_, err = b.breaker.Execute(func() (any, error) {
		b.mu.RLock()
		nc := b.nc
		b.mu.RUnlock()
		if nc == nil {
			return nil, ErrBridgeNotConnected
		}
		return nil, nc.Publish(b.subject(kind), data)
	})
	metrics.RecordClusterPublish(kind, err)
	if err != nil {
		logging.Debug().Err(err).Str("kind", kind).Msg("cluster relay publish failed")
	}
}

func (b *ClusterBridge) receive(m *nats.Msg) {
	var env relayEnvelope
	if err := json.Unmarshal(m.Data, &env); err != nil {
		logging.Warn().Err(err).Str("subject", m.Subject).Msg("dropping malformed relay envelope")
		return
	}
	if env.Origin == b.origin {
		return
	}

	switch {
	case env.Chat != nil:
		metrics.RecordClusterReceive(relayChat)
		b.sink.ApplyRemoteChat(context.Background(), env.Chat.Message, *env.Chat)
	case env.Location != nil:
		metrics.RecordClusterReceive(relayLocation)
		b.sink.ApplyRemoteLocation(*env.Location)
	default:
		logging.Debug().Str("subject", m.Subject).Msg("empty relay envelope")
	}
}
