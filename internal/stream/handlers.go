package stream

import (
	"context"

	"backend-mapty/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ConnectFunc runs after a client is registered, typically to replay the
// session's records to it.
type ConnectFunc func(ctx context.Context, client *Client)

func RegisterRoutes(r fiber.Router, hub *Hub, authMiddleware fiber.Handler, onConnect ConnectFunc) {
	r.Get("/ws", authMiddleware, websocket.New(func(c *websocket.Conn) {
		sessionID, _ := c.Locals(auth.LocalSessionID).(string)
		client := hub.Register(sessionID)

		if onConnect != nil {
			onConnect(context.Background(), client)
		}

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}
