package auth

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
	"github.com/campusswap/campusswap-api/internal/utils"
)

var validate = validator.New()

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	users      store.UserStore
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, users store.UserStore) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		users:      users,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register регистрирует пользователя кампуса и возвращает JWT
func (s *AuthService) Register(c fiber.Ctx) error {
	var payload registerRequest
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверные данные регистрации"})
	}

	// Регистрация открыта только для адресов кампуса
	if s.cfg.CampusEmailDomain != "" && !strings.HasSuffix(payload.Email, "@"+s.cfg.CampusEmailDomain) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Требуется email кампуса @" + s.cfg.CampusEmailDomain,
		})
	}

	if existing, err := s.users.GetByEmail(c.Context(), payload.Email); err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Пользователь уже существует"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сервера"})
	}

	user, err := s.users.Create(c.Context(), &models.User{
		Email:        payload.Email,
		FullName:     payload.FullName,
		Phone:        payload.Phone,
		Role:         models.RoleUser,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login проверяет учетные данные и возвращает JWT
func (s *AuthService) Login(c fiber.Ctx) error {
	var payload loginRequest
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите email и пароль"})
	}

	user, err := s.users.GetByEmail(c.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
		}
		log.Printf("Ошибка поиска пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me возвращает профиль текущего пользователя
func (s *AuthService) Me(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	return c.JSON(fiber.Map{"user": user})
}
