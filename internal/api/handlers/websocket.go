package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/api/middleware"
	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
)

type WebSocketHandler struct {
	hub      *services.WebSocketHub
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewWebSocketHandler accepts connections from the allowed origins; "*"
// allows any origin.
func NewWebSocketHandler(hub *services.WebSocketHub, origins []string, logger *logrus.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// HandleWebSocket upgrades the connection. Clients then send subscribe
// messages naming session or enrichment topics.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade connection")
		return
	}

	client := services.NewClient(h.hub, conn, ownerID)
	h.hub.Register(client)

	welcome := map[string]interface{}{
		"type": "welcome",
		"data": map[string]interface{}{
			"owner_id":  ownerID,
			"timestamp": time.Now().UTC(),
		},
	}
	if err := conn.WriteJSON(welcome); err != nil {
		h.logger.WithError(err).Error("Failed to send welcome message")
		// ReadPump fails on the broken connection and unregisters the client.
		go client.ReadPump()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
