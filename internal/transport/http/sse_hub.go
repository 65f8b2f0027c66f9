package http

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ledgerpress/notifier/internal/application"
)

// Client represents a connected admin SSE client.
type Client struct {
	send chan []byte
}

// Hub manages the admin SSE connections that watch dispatch outcomes.
// Single-instance model: all broadcast is in-process.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates a new SSE Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a new SSE client.
func (h *Hub) Register(send chan []byte) *Client {
	c := &Client{send: send}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Debug().Msg("admin SSE client connected")
	return c
}

// Unregister removes an SSE client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Broadcast sends a dispatch summary to every connected client. Slow
// clients are skipped rather than blocking the dispatcher.
func (h *Hub) Broadcast(event application.DispatchEvent) {
	msg := buildSSEMessage(event)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// ConnectedCount returns the number of connected SSE clients.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// buildSSEMessage formats a dispatch event as an SSE data frame.
func buildSSEMessage(event any) []byte {
	b, _ := json.Marshal(event)
	return []byte("event: dispatch\ndata: " + string(b) + "\n\n")
}
