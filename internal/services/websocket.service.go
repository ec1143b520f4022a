package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types pushed to observers.
const (
	MessageStatus       = "status"
	MessageRealTimeData = "real_time_data"
	MessageNewAlert     = "new_alert"
)

// WebSocketMessage is the envelope for everything sent to observers.
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ClientConnection represents a connected observer. Conn is nil for observers
// that are not backed by a websocket (tests, in-process consumers).
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// NewClientConnection returns a client with a buffered send queue.
func NewClientConnection(id string, conn *websocket.Conn, buffer int) *ClientConnection {
	if buffer <= 0 {
		buffer = ClientSendBuffer
	}
	return &ClientConnection{
		ID:   id,
		Conn: conn,
		Send: make(chan WebSocketMessage, buffer),
	}
}

// WebSocketHub fans messages out to all connected observers.
type WebSocketHub struct {
	clients   map[string]*ClientConnection
	broadcast chan WebSocketMessage
	mu        sync.RWMutex

	logger    *slog.Logger
	telemetry *Telemetry
}

func NewWebSocketHub(logger *slog.Logger, telemetry *Telemetry) *WebSocketHub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WebSocketHub{
		clients:   make(map[string]*ClientConnection),
		broadcast: make(chan WebSocketMessage, 256),
		logger:    logger.With("component", "hub"),
		telemetry: telemetry,
	}
}

// Run delivers queued broadcasts until ctx is cancelled, then disconnects
// every remaining client.
func (h *WebSocketHub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

func (h *WebSocketHub) fanOut(msg WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Send <- msg:
		default:
			// Client's send channel is full, skip this message
			h.telemetry.MessageDropped()
			h.logger.Debug("dropped message for slow client", "client", client.ID, "type", msg.Type)
		}
	}
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
	h.telemetry.SetObservers(0)
}

// Register adds a client. A client with the same ID replaces the old one.
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.mu.Lock()
	if old, exists := h.clients[client.ID]; exists && old != client {
		close(old.Send)
	}
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.telemetry.SetObservers(total)
	h.logger.Info("client connected", "client", client.ID, "total", total)
}

// Unregister removes a client and closes its send queue. It is safe to call
// more than once.
func (h *WebSocketHub) Unregister(client *ClientConnection) {
	h.mu.Lock()
	current, exists := h.clients[client.ID]
	if exists && current == client {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if exists && current == client {
		h.telemetry.SetObservers(total)
		h.logger.Info("client disconnected", "client", client.ID, "total", total)
	}
}

// Broadcast queues msg for every client without blocking the caller.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Channel full, skip this broadcast
		h.telemetry.MessageDropped()
		h.logger.Warn("broadcast queue full, message dropped", "type", msg.Type)
	}
}

// Send delivers msg to a single client. Unknown clients and full queues are
// ignored.
func (h *WebSocketHub) Send(clientID string, msg WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return
	}
	select {
	case client.Send <- msg:
	default:
		h.telemetry.MessageDropped()
	}
}

// Count returns the number of connected clients.
func (h *WebSocketHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
