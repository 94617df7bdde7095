package websocket

import (
	"notekeeper-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RequireUpgrade rejects plain HTTP requests to a websocket route.
func RequireUpgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades an authenticated request and attaches it to the hub.
// It must run after the JWT middleware.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		raw, _ := c.Locals(serverutils.LocalUserID).(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.Close()
			return
		}
		ServeWs(h, c, userID)
	})
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, sendBuffer)}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
