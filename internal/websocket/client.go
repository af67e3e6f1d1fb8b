// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/ridematch/internal/logging"
)

const (
	defaultWriteWait      = 10 * time.Second
	defaultPingWait       = 2 * time.Second
	defaultMaxMessageSize = 64 * 1024 // 64 KB
	defaultSendBuffer     = 256
)

// ClientConfig tunes a gorilla-backed Client.
type ClientConfig struct {
	WriteWait      time.Duration
	PingWait       time.Duration // heartbeat write deadline, capped at WriteWait
	MaxMessageSize int64
	SendBuffer     int

	// MessagesPerSecond limits inbound messages. Zero disables the limit.
	MessagesPerSecond float64
	Burst             int
}

// DefaultClientConfig returns the defaults used when a field is zero.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		WriteWait:         defaultWriteWait,
		PingWait:          defaultPingWait,
		MaxMessageSize:    defaultMaxMessageSize,
		SendBuffer:        defaultSendBuffer,
		MessagesPerSecond: 20,
		Burst:             40,
	}
}

func (cfg ClientConfig) withDefaults() ClientConfig {
	def := DefaultClientConfig()
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = def.WriteWait
	}
	if cfg.PingWait <= 0 {
		cfg.PingWait = def.PingWait
	}
	if cfg.PingWait > cfg.WriteWait {
		cfg.PingWait = cfg.WriteWait
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return cfg
}

// Client adapts a gorilla websocket connection to Transport.
//
// Outbound messages go through a buffered queue drained by WritePump, which
// keeps per-connection FIFO order. The queue is never closed; done signals
// shutdown instead so Send cannot panic on a closed channel.
type Client struct {
	conn    *websocket.Conn
	cfg     ClientConfig
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	limiter *rate.Limiter
}

// NewClient wraps conn. The caller must run WritePump and ReadLoop.
func NewClient(conn *websocket.Conn, cfg ClientConfig) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		conn: conn,
		cfg:  cfg,
		send: make(chan []byte, cfg.SendBuffer),
		done: make(chan struct{}),
	}
	if cfg.MessagesPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), cfg.Burst)
	}
	return c
}

// Send queues payload as a text frame without blocking.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		return ErrSendQueueFull
	}
}

// Ping writes a ping control frame.
func (c *Client) Ping() error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.PingWait))
}

// Close sends a close frame and closes the socket. Later calls are no-ops.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.WriteWait)) //nolint:errcheck // peer may already be gone
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the client shuts down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Allow reports whether another inbound message may be processed now.
func (c *Client) Allow() bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}

// SetPongHandler calls fn for every pong frame. Pongs are only delivered
// while ReadLoop is running.
func (c *Client) SetPongHandler(fn func()) {
	c.conn.SetPongHandler(func(string) error {
		fn()
		return nil
	})
}

// ReadLoop reads frames until the connection fails or closes and passes each
// data frame to handle. There is no read deadline: the liveness monitor is
// the only idle timeout. A normal close returns nil.
func (c *Client) ReadLoop(handle func(payload []byte)) error {
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)

	for {
		msgType, payload, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return err
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		handle(payload)
	}
}

// WritePump drains the send queue until Close. A write error closes the client.
func (c *Client) WritePump() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				_ = c.Close() //nolint:errcheck // best-effort cleanup
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Debug().Err(err).Msg("failed to write websocket message")
				}
				_ = c.Close() //nolint:errcheck // best-effort cleanup
				return
			}
		}
	}
}
