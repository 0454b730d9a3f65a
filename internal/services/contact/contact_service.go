package contact

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/config"
	workflow "github.com/campusswap/campusswap-api/internal/contact"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/store"
	"github.com/campusswap/campusswap-api/internal/utils"
)

// ContactService представляет сервис для работы с запросами контакта
type ContactService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	engine     *workflow.Engine
	listings   store.ListingStore
	users      store.UserStore
}

// NewContactService создает новый экземпляр ContactService
func NewContactService(cfg *config.Config, requests store.ContactRequestStore, listings store.ListingStore, users store.UserStore) *ContactService {
	return &ContactService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		engine:     workflow.NewEngine(requests, listings),
		listings:   listings,
		users:      users,
	}
}

// CreateContactRequest создает запрос контакта по объявлению
func (s *ContactService) CreateContactRequest(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		ListingID   string `json:"listing_id"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	listingID, err := uuid.Parse(requestData.ListingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID объявления"})
	}

	// Номер покупателя приводим к единому виду для показа продавцу
	phone := utils.NormalizePhone(requestData.PhoneNumber)

	request, err := s.engine.Create(c.Context(), actor, listingID, phone)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"request": request,
	})
}

// GetMyContactRequests возвращает запросы, где пользователь участник
func (s *ContactService) GetMyContactRequests(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	requests, err := s.engine.ListForUser(c.Context(), actor.Email)
	if err != nil {
		log.Printf("Ошибка получения запросов контакта: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	// Дополняем объявлениями для отображения
	for i := range requests {
		if l, err := s.listings.Get(c.Context(), requests[i].ListingID); err == nil {
			requests[i].Listing = l
		}
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// ViewContactRequest отмечает, что владелец посмотрел номер покупателя
func (s *ContactService) ViewContactRequest(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID запроса"})
	}

	request, err := s.engine.View(c.Context(), actor, requestID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"request":      request,
		"phone_number": utils.DisplayPhone(request.PhoneNumber),
	})
}

// MarkContacted отмечает, что продавец связался с покупателем
func (s *ContactService) MarkContacted(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID запроса"})
	}

	request, err := s.engine.MarkContacted(c.Context(), actor, requestID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"request": request,
	})
}
