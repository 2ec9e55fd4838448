package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the live connection of each user. One connection per user: a
// second connect replaces the first.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]*client
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates an empty connection registry.
func NewHub() *Hub {
	return &Hub{clients: make(map[uint]*client)}
}

// Register binds a connection to a user, closing any previous one.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		old.conn.Close()
	}
	h.clients[userID] = &client{conn: conn}
	h.mu.Unlock()
}

// Unregister drops the user's connection if it is still the given one.
func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if c, ok := h.clients[userID]; ok && c.conn == conn {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
}

// Send delivers a JSON payload to the user's connection. Returns false when
// the user is not connected; delivery is best effort.
func (h *Hub) Send(userID uint, payload interface{}) bool {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(payload) == nil
}
