package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Conn adapts a websocket connection to registry.Channel. gorilla allows one
// concurrent writer, so every write goes through mu.
type Conn struct {
	id           string
	ws           *websocket.Conn
	writeTimeout time.Duration

	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func NewConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{
		id:           uuid.NewString(),
		ws:           ws,
		writeTimeout: writeTimeout,
	}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.SetWriteDeadline(c.deadline()); err != nil {
		return err
	}
	return c.ws.WriteJSON(outboundEnvelope{Event: event, Data: payload})
}

func (c *Conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteControl(websocket.PingMessage, nil, c.deadline())
}

// Close is idempotent.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

func (c *Conn) deadline() time.Time {
	if c.writeTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.writeTimeout)
}
