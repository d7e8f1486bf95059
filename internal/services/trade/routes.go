package trade

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the trade procedures. Every one requires auth.
func (s *TradeService) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	rpc := app.Group("/rpc", authMW)
	rpc.Post("/trades.propose", s.Propose)
	rpc.Post("/trades.getById", s.GetByID)
	rpc.Post("/trades.accept", s.Accept)
	rpc.Post("/trades.decline", s.Decline)
	rpc.Post("/trades.confirm", s.Confirm)
	rpc.Post("/trades.cancel", s.Cancel)
	rpc.Post("/users.myTrades", s.MyTrades)
}
