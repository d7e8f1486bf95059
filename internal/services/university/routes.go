package university

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the university procedures. Both are public so the
// registration screen can populate its campus picker.
func (s *UniversityService) SetupRoutes(app *fiber.App) {
	rpc := app.Group("/rpc")
	rpc.Post("/universities.list", s.List)
	rpc.Post("/universities.getById", s.GetByID)
}
