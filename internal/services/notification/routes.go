package notification

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the notification procedures behind auth.
func (s *NotificationService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	rpc := app.Group("/rpc", authMW)
	rpc.Post("/notifications.list", s.List)
	rpc.Post("/notifications.markRead", s.MarkRead)
}
