package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHub fans notification change events out to the WebSocket connections of
// the affected user. Clients react by refetching their notification list; the
// event itself carries no row data.
type WSHub struct {
	connections map[uuid.UUID]map[*websocket.Conn]bool
	mutex       sync.Mutex
}

func NewWSHub() *WSHub {
	return &WSHub{connections: make(map[uuid.UUID]map[*websocket.Conn]bool)}
}

// NotifyChanged sends a change event to every open connection of userID.
// Dead connections are dropped on write failure.
func (h *WSHub) NotifyChanged(userID uuid.UUID, action string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns, exists := h.connections[userID]
	if !exists {
		return
	}

	message, err := json.Marshal(map[string]any{
		"event":  "notification_changed",
		"action": action,
	})
	if err != nil {
		log.Printf("Failed to marshal feed event: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Failed to send WebSocket message: %v", err)
			delete(conns, conn)
			conn.Close()
		}
	}
}

func (h *WSHub) register(userID uuid.UUID, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.connections[userID] == nil {
		h.connections[userID] = make(map[*websocket.Conn]bool)
	}
	h.connections[userID][conn] = true
}

func (h *WSHub) unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.connections[userID], conn)
}

// HandleWebSocket upgrades GET /ws into the session user's change feed. One
// connection per active view; it lives until the client closes it.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP(r)) {
		sendError(w, "Too many WebSocket connection attempts", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.WSHub.register(sess.UserID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.WSHub.unregister(sess.UserID, conn)
			conn.Close()
			return
		}
		// Clients only listen; incoming messages are ignored.
	}
}

// checkOrigin allows any origin when ALLOWED_ORIGINS is unset, otherwise only
// the listed ones.
func checkOrigin(r *http.Request) bool {
	allowed := os.Getenv("ALLOWED_ORIGINS")
	if allowed == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range strings.Split(allowed, ",") {
		if strings.TrimSpace(o) == origin {
			return true
		}
	}
	return false
}
