package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"market-chat-service/internal/models"
)

// Event is the frame written to subscribed connections.
type Event struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Hub maintains the connections subscribed to each room's broadcast topic.
// Broadcasts arrive on the broker-consumer goroutine while error frames come
// from each connection's read loop; the per-connection writer lock keeps the
// two from writing the same socket at once, which gorilla forbids.
type Hub struct {
	rooms       map[int64]map[*websocket.Conn]string
	writers     map[*websocket.Conn]*sync.Mutex
	mu          sync.RWMutex
	sendTimeout time.Duration
}

// NewHub creates an empty hub.
func NewHub(sendTimeout time.Duration) *Hub {
	return &Hub{
		rooms:       make(map[int64]map[*websocket.Conn]string),
		writers:     make(map[*websocket.Conn]*sync.Mutex),
		sendTimeout: sendTimeout,
	}
}

// Add registers a websocket connection to a room.
func (h *Hub) Add(chatroomID int64, conn *websocket.Conn, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatroomID]; !ok {
		h.rooms[chatroomID] = make(map[*websocket.Conn]string)
	}
	h.rooms[chatroomID][conn] = sessionID
	if _, ok := h.writers[conn]; !ok {
		h.writers[conn] = &sync.Mutex{}
	}
}

// Remove drops a connection from a room.
func (h *Hub) Remove(chatroomID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[chatroomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, chatroomID)
		}
	}
	delete(h.writers, conn)
}

// writerLock returns the connection's write lock, recreating it for a
// connection that was already removed (its read loop may still report one
// last error frame before exiting).
func (h *Hub) writerLock(conn *websocket.Conn) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	if lock, ok := h.writers[conn]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	h.writers[conn] = lock
	return lock
}

// write sends one frame while holding the connection's writer lock.
func (h *Hub) write(conn *websocket.Conn, payload []byte) error {
	lock := h.writerLock(conn)
	lock.Lock()
	defer lock.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(h.sendTimeout))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Broadcast fans a message out to every connection subscribed to the room.
// Subscribers only see events published from the moment of subscription
// onward; there is no historical backfill.
func (h *Hub) Broadcast(chatroomID int64, msg models.Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[chatroomID]))
	for conn := range h.rooms[chatroomID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(Event{Type: "message", Message: &msg})
	for _, conn := range conns {
		if err := h.write(conn, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.Remove(chatroomID, conn)
		}
	}
}

// WriteError reports a failed operation to a single connection without
// affecting other participants' view of the room.
func (h *Hub) WriteError(conn *websocket.Conn, reason string) {
	payload, _ := json.Marshal(Event{Type: "error", Error: reason})
	if err := h.write(conn, payload); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}
