package media

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the media procedure behind auth.
func (s *MediaService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	rpc := app.Group("/rpc", authMW)
	rpc.Post("/media.uploadParams", s.UploadParams)
}
