package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"sentinel/internal/middleware"
	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var clientSeq atomic.Uint64

// clientMessage is what observers may send upstream.
type clientMessage struct {
	Type string `json:"type"`
}

// HandleWebSocket upgrades the request and attaches the connection to the hub
// as an observer.
func HandleWebSocket(hub *services.WebSocketHub, monitor *services.Monitor, allowedOrigins []string, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ws")
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return middleware.OriginAllowed(allowedOrigins, r.Header.Get("Origin"), r.Host)
		},
	}

	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("upgrade error", "ip", c.ClientIP(), "error", err)
			return
		}

		clientID := fmt.Sprintf("%s-%d", c.ClientIP(), clientSeq.Add(1))
		client := services.NewClientConnection(clientID, ws, services.ClientSendBuffer)

		hub.Register(client)
		monitor.ObserverConnected(client.ID)

		go writePump(client, logger)
		go readPump(client, hub, monitor, logger)
	}
}

// readPump reads messages from the WebSocket client until it goes away
func readPump(client *services.ClientConnection, hub *services.WebSocketHub, monitor *services.Monitor, logger *slog.Logger) {
	defer func() {
		hub.Unregister(client)
		monitor.ObserverDisconnected(client.ID)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read error", "client", client.ID, "error", err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			hub.Send(client.ID, services.WebSocketMessage{Type: "pong", Timestamp: time.Now()})
		case "unsubscribe":
			return
		default:
			logger.Debug("unknown message type", "client", client.ID, "type", msg.Type)
		}
	}
}

// writePump writes queued messages and keepalive pings to the client
func writePump(client *services.ClientConnection, logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(msg); err != nil {
				logger.Debug("write error", "client", client.ID, "error", err)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
