package websocket

import (
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// pingPeriod must stay below pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound control frames
	maxMessageSize = 1024

	sendBufferSize = 256
)

// Client is one WebSocket connection with its entity subscription
type Client struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte
	logger zerolog.Logger

	mu           sync.RWMutex
	subscription Subscription
	closed       bool
	closeOnce    sync.Once
}

// NewClient creates a client for conn. An empty subscription receives every event.
func NewClient(conn *websocket.Conn, subscription Subscription, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:           id,
		conn:         conn,
		hub:          hub,
		send:         make(chan []byte, sendBufferSize),
		subscription: subscription,
		logger:       log.With().Str("component", "websocket").Str("client_id", id).Logger(),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Accepts reports whether the client wants events about entity
func (c *Client) Accepts(entity event.Entity) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subscription.Accepts(entity)
}

// Send queues data for the write pump. A full buffer counts as a dead client.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close is idempotent and safe for concurrent use
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// apply updates the subscription from a control message
func (c *Client) apply(msg ControlMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Action {
	case ActionSubscribe:
		c.subscription = c.subscription.With(msg.Entities...)
	case ActionUnsubscribe:
		c.subscription = c.subscription.Without(msg.Entities...)
	default:
		c.logger.Debug().Str("action", msg.Action).Msg("Ignoring unknown control action")
		return
	}
	c.logger.Debug().Strs("entities", c.subscription.Names()).Msg("Subscription changed")
}

// ReadPump reads control messages until the connection fails. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ControlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}
		c.apply(msg)
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
