package notify

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the event stream. The subscriber's identity comes
// from the bearer token, not the URL, so a connection only ever watches its
// own bookings.
func RegisterRoutes(r fiber.Router, hub *Hub, protect fiber.Handler) {
	r.Get("/ws", protect, websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return
		}

		client := hub.Register(userID)
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		// inbound frames are ignored; the read loop only notices disconnects
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		<-done
	}))
}
