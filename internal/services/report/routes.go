package report

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the report procedure behind auth.
func (s *ReportService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	rpc := app.Group("/rpc", authMW)
	rpc.Post("/reports.create", s.Create)
}
