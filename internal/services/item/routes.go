package item

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the item procedures. Browsing is public; everything
// that mutates, plus the caller-scoped listing, sits behind auth.
func (s *ItemService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	public := app.Group("/rpc")
	public.Post("/items.getById", s.GetByID)
	public.Post("/items.list", s.List)

	private := app.Group("/rpc", authMW)
	private.Post("/items.create", s.Create)
	private.Post("/items.update", s.Update)
	private.Post("/items.remove", s.Remove)
	private.Post("/users.myItems", s.MyItems)
}
