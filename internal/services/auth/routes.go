package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API авторизации
func (s *AuthService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/register", s.Register)
	api.Post("/login", s.Login)

	api.Get("/me", s.Me, middleware.AuthMiddleware(s.jwtService))
}
