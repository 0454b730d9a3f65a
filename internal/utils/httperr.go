package utils

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/models"
)

// ErrorStatus сопоставляет ошибки бизнес-логики HTTP-статусам
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrPrecondition):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
