package client

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// reconnectDelay paces reconnection attempts after a dropped connection.
const reconnectDelay = 2 * time.Second

// Conn is the event channel to the capture service. It implements Sender.
// A dropped connection is re-dialed in the background; commands sent while
// disconnected fail fast and are not queued.
type Conn struct {
	url    string
	header http.Header
	logger *zap.Logger

	mu sync.Mutex
	ws *websocket.Conn

	events chan []byte
	done   chan struct{}

	closeOnce sync.Once
}

// Dial connects to the capture service. Pass an empty token when the server
// runs without auth.
func Dial(url, token string, logger *zap.Logger) (*Conn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	c := &Conn{
		url:    url,
		header: header,
		logger: logger,
		ws:     ws,
		events: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events delivers raw event payloads. The channel closes when the connection
// is closed for good.
func (c *Conn) Events() <-chan []byte {
	return c.events
}

// Send implements Sender.
func (c *Conn) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws == nil {
		return fmt.Errorf("not connected")
	}
	c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(v)
}

// Close shuts the connection down and stops reconnecting.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.ws != nil {
			c.ws.Close()
			c.ws = nil
		}
		c.mu.Unlock()
	})
	return nil
}

func (c *Conn) readLoop() {
	defer close(c.events)

	for {
		c.mu.Lock()
		ws := c.ws
		c.mu.Unlock()
		if ws == nil {
			return
		}

		_, payload, err := ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.logger.Warn("Event channel dropped, reconnecting", zap.Error(err))
			if !c.reconnect() {
				return
			}
			continue
		}

		select {
		case c.events <- payload:
		default:
			// Consumer stalled; drop rather than block the read loop.
		}
	}
}

// reconnect re-dials until it succeeds or the connection is closed.
func (c *Conn) reconnect() bool {
	for {
		select {
		case <-c.done:
			return false
		case <-time.After(reconnectDelay):
		}

		ws, _, err := websocket.DefaultDialer.Dial(c.url, c.header)
		if err != nil {
			c.logger.Warn("Reconnect attempt failed", zap.Error(err))
			continue
		}

		c.mu.Lock()
		c.ws = ws
		c.mu.Unlock()
		c.logger.Info("Event channel reconnected")
		return true
	}
}
