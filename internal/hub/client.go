package hub

import (
	"log/slog"
	"sync"
)

// Client represents one connected websocket client as seen by the hub.
// The gateway owns the actual connection; the hub only ever touches the
// outbound send channel.
type Client struct {
	ID   string
	Send chan []byte
	mu   sync.RWMutex
}

// NewClient wraps a connection id and a buffered outbound channel.
func NewClient(id string, buffer int) *Client {
	return &Client{
		ID:   id,
		Send: make(chan []byte, buffer),
	}
}

// SendMessage safely queues a message for the client. It uses a read lock to
// ensure the channel is not closed concurrently. If the buffer is full the
// message is dropped; a lagging client must not stall delivery to others.
func (c *Client) SendMessage(msg []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Send == nil {
		return
	}

	select {
	case c.Send <- msg:
	default:
		slog.Warn("Client send channel full, dropping message", "connID", c.ID)
	}
}

// Close safely closes the client's send channel, terminating its write pump.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Send != nil {
		close(c.Send)
		c.Send = nil
	}
}
