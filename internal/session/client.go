package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"docsync/internal/models"
)

// Client is one live WebSocket connection. Writes are serialized through the
// client's own mutex so broadcasts from different rooms cannot interleave a
// frame.
type Client struct {
	Conn *websocket.Conn

	id   string
	mu   sync.Mutex
	hook func(models.WSFrame)
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{Conn: conn, id: uuid.NewString()}
}

// SessionID is the server-generated identifier announced to the client in
// the connected frame.
func (c *Client) SessionID() string { return c.id }

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}
