package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event is pushed to connected clients so they can invalidate cached views.
// Delivery is best-effort and carries no ordering guarantee.
type Event struct {
	Type string      `json:"event"`
	Data interface{} `json:"data,omitempty"`
}

type client struct {
	id     string
	userID uint
	conn   *websocket.Conn
	send   chan Event
}

// Hub owns all websocket connections. It is constructed once in main and
// injected into whatever needs to broadcast; there is no package-level
// instance.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// Register adds a connection to the hub and starts its pumps. The returned
// id can be used to remove the client explicitly; the hub also removes it
// when the connection drops.
func (h *Hub) Register(conn *websocket.Conn, userID uint) string {
	c := &client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan Event, 16),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return ""
	}
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("[ws] client registered: id=%s user=%d (total: %d)", c.id, userID, total)

	go c.writePump()
	go h.readPump(c)
	return c.id
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		close(c.send)
		delete(h.clients, clientID)
		log.Printf("[ws] client unregistered: id=%s (total: %d)", clientID, len(h.clients))
	}
}

// Broadcast sends an event to every connected client. Slow clients with a
// full buffer are skipped, not waited on.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- event:
		default:
			log.Printf("[ws] client %s buffer full, dropping event", c.id)
		}
	}
}

// SendToUser sends an event only to connections authenticated as userID.
func (h *Hub) SendToUser(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.send <- event:
		default:
			log.Printf("[ws] client %s buffer full, dropping user event", c.id)
		}
	}
}

// Shutdown closes every connection and rejects further registrations.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		close(c.send)
		c.conn.Close()
		delete(h.clients, id)
	}
}

func (c *client) writePump() {
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump drains inbound frames (clients send nothing meaningful) and
// unregisters on disconnect.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.Unregister(c.id)
}
