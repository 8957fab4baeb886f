// Package hub owns the table of live connections and performs all outbound
// delivery. It knows nothing about rooms, sessions or event semantics; those
// layers resolve recipients and hand the hub fully encoded frames.
package hub

import (
	"sync"
)

// Hub manages the lifecycle of connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// New creates an empty hub. Like the session registry, it is created once at
// process start and shared by reference.
func New() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Add registers a new client under its connection id.
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
}

// Remove unregisters a client and closes its send channel.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		client.Close()
	}
}

// SendTo queues a frame for a single connection. Unknown connection ids are
// ignored; a recipient may have disconnected between resolution and delivery.
func (h *Hub) SendTo(connID string, msg []byte) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()

	if ok {
		client.SendMessage(msg)
	}
}

// SendMany queues a frame for each listed connection, skipping exclude.
func (h *Hub) SendMany(connIDs []string, exclude string, msg []byte) {
	for _, id := range connIDs {
		if id == exclude {
			continue
		}
		h.SendTo(id, msg)
	}
}

// SendAll queues a frame for every connected client, skipping exclude.
func (h *Hub) SendAll(exclude string, msg []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for id, client := range h.clients {
		if id == exclude {
			continue
		}
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.SendMessage(msg)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
