package listing

import (
	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API объявлений
func (s *ListingService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/listings")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Post("/", s.CreateListing)
	api.Get("/my", s.GetMyListings)
	api.Get("/:id", s.GetListing)
	api.Put("/:id", s.UpdateListing)
	api.Delete("/:id", s.DeleteListing)
	api.Post("/:id/sold", s.MarkSold)
	api.Post("/:id/verify-phone", s.VerifyPhone)
}

// SetupPublicRoutes настраивает публичные маршруты для каталога
func (s *ListingService) SetupPublicRoutes(app *fiber.App) {
	app.Get("/api/listings", s.GetPublicListings)
}
