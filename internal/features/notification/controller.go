package notification

import (
	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	hub *Hub
}

func NewWebSocketController(hub *Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// HandleWebSocket keeps the connection registered with the hub until the
// client goes away. Inbound messages are ignored; the socket is a one-way
// event stream.
func (c *WebSocketController) HandleWebSocket(conn *websocket.Conn) {
	c.hub.register(conn)
	defer c.hub.unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
