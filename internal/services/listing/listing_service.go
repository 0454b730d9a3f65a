package listing

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/ownership"
	"github.com/campusswap/campusswap-api/internal/search"
	"github.com/campusswap/campusswap-api/internal/store"
	"github.com/campusswap/campusswap-api/internal/utils"
)

// ListingService представляет сервис для работы с объявлениями
type ListingService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	listings   store.ListingStore
	users      store.UserStore
	verifier   *ownership.Verifier
}

// NewListingService создает новый экземпляр ListingService
func NewListingService(cfg *config.Config, listings store.ListingStore, users store.UserStore) *ListingService {
	return &ListingService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		listings:   listings,
		users:      users,
		verifier:   ownership.NewVerifier(users),
	}
}

type listingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images"`
	Phone       string   `json:"phone"`
}

// CreateListing обрабатывает создание нового объявления
func (s *ListingService) CreateListing(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData listingRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Валидация обязательных полей
	if requestData.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	price, err := decimal.NewFromString(requestData.Price)
	if err != nil || price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверная цена"})
	}

	if !models.ValidCategory(requestData.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверная категория"})
	}

	if !models.ValidCondition(requestData.Condition) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверное состояние товара"})
	}

	if len(requestData.Images) > models.MaxListingImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Слишком много изображений"})
	}

	listing, err := s.listings.Create(c.Context(), &models.Listing{
		Title:       requestData.Title,
		Description: requestData.Description,
		Price:       price,
		Category:    requestData.Category,
		Condition:   requestData.Condition,
		Images:      requestData.Images,
		Status:      models.ListingStatusActive,
		SellerEmail: actor.Email,
		SellerName:  actor.FullName,
		SellerPhone: actor.Phone,
	})
	if err != nil {
		log.Printf("Ошибка создания объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"listing": listing,
	})
}

// GetPublicListings возвращает публичный каталог с фильтрацией и сортировкой
func (s *ListingService) GetPublicListings(c fiber.Ctx) error {
	filters := search.Filters{
		ShowSold:  c.Query("show_sold") == "true",
		Search:    c.Query("search"),
		Category:  c.Query("category", search.All),
		Condition: c.Query("condition", search.All),
		SortBy:    c.Query("sort", search.SortNewest),
	}

	if raw := c.Query("min_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filters.MinPrice = &v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filters.MaxPrice = &v
		}
	}

	listings, err := s.listings.List(c.Context())
	if err != nil {
		log.Printf("Ошибка получения объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	result := search.Apply(listings, filters)

	return c.JSON(fiber.Map{
		"listings": result,
		"count":    len(result),
	})
}

// GetMyListings возвращает объявления текущего пользователя
func (s *ListingService) GetMyListings(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	listings, err := s.listings.ListBySeller(c.Context(), actor.Email, c.Query("status", "all"))
	if err != nil {
		log.Printf("Ошибка получения объявлений пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing возвращает объявление по ID и считает просмотр
func (s *ListingService) GetListing(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID объявления"})
	}

	listing, err := s.listings.Get(c.Context(), listingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	// Просмотры продавца не считаем
	if listing.SellerEmail != actor.Email {
		if err := s.listings.IncrementViews(c.Context(), listingID); err != nil {
			log.Printf("⚠️ Ошибка обновления счетчика просмотров: %v", err)
		} else {
			listing.Views++
		}
	}

	return c.JSON(fiber.Map{"listing": listing})
}

// UpdateListing обновляет объявление после проверки владения
func (s *ListingService) UpdateListing(c fiber.Ctx) error {
	_, listing, ok := s.loadOwned(c)
	if !ok {
		return nil
	}

	var requestData listingRequest
	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	var patch store.ListingPatch
	if requestData.Title != "" {
		patch.Title = &requestData.Title
	}
	if requestData.Description != "" {
		patch.Description = &requestData.Description
	}
	if requestData.Price != "" {
		price, err := decimal.NewFromString(requestData.Price)
		if err != nil || price.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверная цена"})
		}
		patch.Price = &price
	}
	if requestData.Category != "" {
		if !models.ValidCategory(requestData.Category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверная категория"})
		}
		patch.Category = &requestData.Category
	}
	if requestData.Condition != "" {
		if !models.ValidCondition(requestData.Condition) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверное состояние товара"})
		}
		patch.Condition = &requestData.Condition
	}
	if requestData.Images != nil {
		if len(requestData.Images) > models.MaxListingImages {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Слишком много изображений"})
		}
		patch.Images = &requestData.Images
	}

	updated, err := s.listings.Update(c.Context(), listing.ID, patch)
	if err != nil {
		log.Printf("Ошибка обновления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"listing": updated,
	})
}

// DeleteListing помечает объявление удаленным после проверки владения
func (s *ListingService) DeleteListing(c fiber.Ctx) error {
	_, listing, ok := s.loadOwned(c)
	if !ok {
		return nil
	}

	status := models.ListingStatusRemoved
	if _, err := s.listings.Update(c.Context(), listing.ID, store.ListingPatch{Status: &status}); err != nil {
		log.Printf("Ошибка удаления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Объявление удалено",
	})
}

// MarkSold помечает объявление проданным после проверки владения
func (s *ListingService) MarkSold(c fiber.Ctx) error {
	_, listing, ok := s.loadOwned(c)
	if !ok {
		return nil
	}

	status := models.ListingStatusSold
	updated, err := s.listings.Update(c.Context(), listing.ID, store.ListingPatch{Status: &status})
	if err != nil {
		log.Printf("Ошибка пометки объявления проданным: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"listing": updated,
	})
}

// VerifyPhone проверяет владение объявлением по номеру телефона
func (s *ListingService) VerifyPhone(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID объявления"})
	}

	listing, err := s.listings.Get(c.Context(), listingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	var payload struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if err := s.verifier.VerifyByPhone(c.Context(), actor, listing, payload.Phone); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": "Номер телефона не совпадает"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"verified": true,
	})
}

// loadOwned загружает объявление и проверяет право актора управлять им.
// Если email не совпадает, принимается необязательное поле phone из тела
// запроса как подтверждение владения. При отказе ответ уже записан.
func (s *ListingService) loadOwned(c fiber.Ctx) (*models.User, *models.Listing, bool) {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
		return nil, nil, false
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID объявления"})
		return nil, nil, false
	}

	listing, err := s.listings.Get(c.Context(), listingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		} else {
			log.Printf("Ошибка получения объявления: %v", err)
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
		}
		return nil, nil, false
	}

	if s.verifier.CanManage(actor, listing) {
		return actor, listing, true
	}

	var payload struct {
		Phone string `json:"phone"`
	}
	_ = c.Bind().Body(&payload)

	if payload.Phone == "" {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет прав на это объявление"})
		return nil, nil, false
	}

	if err := s.verifier.VerifyByPhone(c.Context(), actor, listing, payload.Phone); err != nil {
		_ = c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": "Номер телефона не совпадает"})
		return nil, nil, false
	}

	return actor, listing, true
}
