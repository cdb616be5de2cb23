package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/bindery/pkg/binding"
)

// Message is sent to inspector clients over the websocket.
type Message struct {
	Type     string            `json:"type"`
	Activity *binding.Activity `json:"activity,omitempty"`
}

const (
	// MessageActivity carries one engine activity.
	MessageActivity = "activity"

	// MessageHello is the first message a client receives.
	MessageHello = "hello"
)

// Hub fans engine activity out to websocket clients.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a hub. A nil logger uses slog.Default().
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // the inspector is a local tool
			},
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and keeps the client registered
// until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Debug("inspector client connected", "remote", req.RemoteAddr)

	h.send(conn, Message{Type: MessageHello})

	// Clients never send anything meaningful; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(conn)
}

// Publish sends a to every client. It has the signature binding.WithActivity
// expects.
func (h *Hub) Publish(a binding.Activity) {
	h.broadcast(Message{Type: MessageActivity, Activity: &a})
}

func (h *Hub) broadcast(msg Message) {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.send(client, msg)
	}
}

func (h *Hub) send(conn *websocket.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("encode inspector message", "error", err)
		return
	}
	h.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	h.writeMu.Unlock()
	if err != nil {
		h.drop(conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
