package trade

import (
	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *TradeService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/trades")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Get("/public", s.GetPublicTrades)
	api.Get("/my", s.GetMyTrades)
	api.Post("/", s.CreateTrade)
	api.Put("/:id/status", s.UpdateStatus)
	api.Delete("/:id", s.DeleteTrade)
	api.Post("/:id/repair", s.RepairTrade)
}
