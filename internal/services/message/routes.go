package message

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the messaging procedures behind auth.
func (s *MessageService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	rpc := app.Group("/rpc", authMW)
	rpc.Post("/messages.send", s.Send)
	rpc.Post("/messages.conversation", s.Conversation)
	rpc.Post("/messages.inbox", s.Inbox)
}
