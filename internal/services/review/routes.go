package review

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the review procedures. Reading a user's reviews is
// public; writing requires auth.
func (s *ReviewService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	public := app.Group("/rpc")
	public.Post("/reviews.listForUser", s.ListForUser)

	private := app.Group("/rpc", authMW)
	private.Post("/reviews.create", s.Create)
	private.Post("/users.myReviews", s.MyReviews)
}
