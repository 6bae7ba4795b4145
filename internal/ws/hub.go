package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to clients.
const (
	EventConnected  = "connected"
	EventMessageNew = "message.new"
)

// Event is the envelope for everything sent over a websocket connection.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub tracks active websocket connections keyed by user ID and fans events
// out to them. Delivery is best-effort; nothing in the HTTP layer depends on
// a push arriving.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int64]map[*websocket.Conn]struct{}),
	}
}

// Register adds a connection for the given user.
func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

// Unregister removes a connection for the given user.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.conns[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, userID)
		}
	}
}

// BroadcastToUsers sends the event to all active connections of the provided
// user IDs. Failed connections are closed; actual removal happens on the
// connection's own Unregister.
func (h *Hub) BroadcastToUsers(userIDs []int64, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, uid := range userIDs {
		for conn := range h.conns[uid] {
			if err := conn.WriteJSON(event); err != nil {
				conn.Close()
			}
		}
	}
}
