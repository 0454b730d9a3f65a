package contact

import (
	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API запросов контакта
func (s *ContactService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/contacts")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Post("/", s.CreateContactRequest)
	api.Get("/my", s.GetMyContactRequests)
	api.Post("/:id/view", s.ViewContactRequest)
	api.Post("/:id/contacted", s.MarkContacted)
}
