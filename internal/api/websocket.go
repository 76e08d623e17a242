package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	ws "github.com/enginewatch/snmp-engine-monitor/internal/websocket"
)

// WebSocketHandler upgrades dashboard connections onto the telemetry hub
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleConnection runs one client connection until it closes
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	client := ws.NewClient(h.hub, c)
	client.Start()
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(h.HandleConnection))
}
