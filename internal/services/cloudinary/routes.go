package cloudinary

import (
	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для загрузки изображений
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(s.jwtService))

	protected.Get("/upload/params", s.GenerateUploadParams)
}
