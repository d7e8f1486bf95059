package user

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the user and auth procedures.
func (s *UserService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	public := app.Group("/rpc")
	public.Post("/users.register", s.Register)
	public.Post("/users.login", s.Login)
	public.Post("/users.getById", s.GetByID)

	private := app.Group("/rpc", authMW)
	private.Post("/auth.logout", s.Logout)
	private.Post("/users.me", s.Me)
	private.Post("/users.updateMe", s.UpdateMe)
}
