// Package hub provides a thread-safe broadcast hub for WebSocket clients.
// All connection writes go through per-client send channels, so callers
// can broadcast from any goroutine.
package hub

import (
	"sync"
)

// Hub fans messages out to every registered client.
type Hub struct {
	name string

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// New creates a named hub.
func New(name string) *Hub {
	return &Hub{
		name:    name,
		clients: make(map[*Client]struct{}),
	}
}

// Name returns the hub name.
func (h *Hub) Name() string { return h.name }

// Broadcast queues data for every connected client. Slow clients that
// cannot keep up are dropped rather than allowed to block the hub.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		close(c.send)
	}
	h.clients = make(map[*Client]struct{})
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
