package handler

import (
	"net/http"
	"sync"

	"github.com/biaslens/biaslens/internal/dataset"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSHandler pushes dataset and settings events to connected UIs so they can
// update the sample-data notice without polling.
type WSHandler struct {
	// Each connection carries its own write lock: broadcasts originate from
	// concurrent request goroutines, and gorilla connections allow only one
	// writer at a time.
	clients map[*websocket.Conn]*sync.Mutex
	mu      sync.RWMutex
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler() *WSHandler {
	return &WSHandler{
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// HandleWS handles WebSocket upgrade and connection
func (h *WSHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer func() {
		h.removeClient(conn)
		_ = conn.Close()
	}()

	h.addClient(conn)

	// Keep connection alive and handle incoming messages
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// NotifySourceStatus broadcasts a live/fallback transition for one category.
func (h *WSHandler) NotifySourceStatus(cat dataset.Category, source dataset.Source, reason string) {
	h.broadcast(WSMessage{
		Type: "sourceStatus",
		Payload: map[string]string{
			"category": string(cat),
			"source":   string(source),
			"reason":   reason,
		},
	})
}

// NotifySettingsChange broadcasts that server settings were reloaded.
func (h *WSHandler) NotifySettingsChange() {
	h.broadcast(WSMessage{Type: "settingsChange"})
}

func (h *WSHandler) addClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &sync.Mutex{}
}

func (h *WSHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *WSHandler) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WSHandler) broadcast(msg WSMessage) {
	type client struct {
		conn *websocket.Conn
		mu   *sync.Mutex
	}

	h.mu.RLock()
	conns := make([]client, 0, len(h.clients))
	for conn, mu := range h.clients {
		conns = append(conns, client{conn: conn, mu: mu})
	}
	h.mu.RUnlock()

	for _, cl := range conns {
		cl.mu.Lock()
		err := cl.conn.WriteJSON(msg)
		cl.mu.Unlock()
		if err != nil {
			h.removeClient(cl.conn)
			_ = cl.conn.Close()
		}
	}
}
