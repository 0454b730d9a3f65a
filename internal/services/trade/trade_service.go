package trade

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
	"github.com/campusswap/campusswap-api/internal/trading"
	"github.com/campusswap/campusswap-api/internal/utils"
)

// TradeService представляет сервис для работы с обменами
type TradeService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	engine     *trading.Engine
	listings   store.ListingStore
	users      store.UserStore
}

// NewTradeService создает новый экземпляр TradeService
func NewTradeService(cfg *config.Config, trades store.TradeStore, listings store.ListingStore, users store.UserStore) *TradeService {
	return &TradeService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		engine:     trading.NewEngine(trades, listings),
		listings:   listings,
		users:      users,
	}
}

// CreateTrade обрабатывает создание предложения обмена
func (s *TradeService) CreateTrade(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		OfferedListingID   string `json:"offered_listing_id"`
		RequestedListingID string `json:"requested_listing_id"`
		CashOffer          string `json:"cash_offer"`
		Message            string `json:"message"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	offeredID, err := uuid.Parse(requestData.OfferedListingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID предлагаемого объявления"})
	}

	requestedID, err := uuid.Parse(requestData.RequestedListingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID запрашиваемого объявления"})
	}

	// Нечисловая доплата трактуется как ноль
	cashOffer, err := decimal.NewFromString(requestData.CashOffer)
	if err != nil || cashOffer.IsNegative() {
		cashOffer = decimal.Zero
	}

	trade, err := s.engine.Propose(c.Context(), actor, trading.Proposal{
		OfferedListingID:   offeredID,
		RequestedListingID: requestedID,
		CashOffer:          cashOffer,
		Message:            requestData.Message,
	})
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"trade":   trade,
	})
}

// GetPublicTrades возвращает ленту обменов: активные и завершенные
func (s *TradeService) GetPublicTrades(c fiber.Ctx) error {
	trades, err := s.engine.ListPublic(c.Context())
	if err != nil {
		log.Printf("Ошибка получения обменов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	s.enrich(c.Context(), trades)
	active, completed := trading.Partition(trades)

	return c.JSON(fiber.Map{
		"active":    active,
		"completed": completed,
	})
}

// GetMyTrades возвращает обмены текущего пользователя
func (s *TradeService) GetMyTrades(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	trades, err := s.engine.ListForUser(c.Context(), actor.Email)
	if err != nil {
		log.Printf("Ошибка получения обменов пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	s.enrich(c.Context(), trades)

	return c.JSON(fiber.Map{
		"trades": trades,
		"count":  len(trades),
	})
}

// UpdateStatus принимает или отклоняет предложение обмена
func (s *TradeService) UpdateStatus(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID обмена"})
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if payload.Status != trading.DecisionAccepted && payload.Status != trading.DecisionDeclined {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус"})
	}

	trade, err := s.engine.Respond(c.Context(), actor, tradeID, payload.Status)
	if err != nil {
		if errors.Is(err, models.ErrConsistency) {
			// Обмен принят, но часть объявлений не обновилась.
			// Администратор может довести состояние через repair.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Обмен принят, но объявления обновлены не полностью",
				"trade": trade,
			})
		}
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"trade":   trade,
	})
}

// DeleteTrade отменяет предложение обмена отправителем
func (s *TradeService) DeleteTrade(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID обмена"})
	}

	trade, err := s.engine.Cancel(c.Context(), actor, tradeID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"trade":   trade,
	})
}

// RepairTrade повторно применяет каскад продажи для принятого обмена
func (s *TradeService) RepairTrade(c fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, s.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	if !actor.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Требуются права администратора"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ID обмена"})
	}

	if err := s.engine.Repair(c.Context(), tradeID); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Состояние обмена восстановлено",
	})
}

// enrich дополняет обмены объявлениями и именами участников для отображения
func (s *TradeService) enrich(ctx context.Context, trades []models.Trade) {
	for i := range trades {
		t := &trades[i]

		if l, err := s.listings.Get(ctx, t.OfferedListingID); err == nil {
			t.OfferedListing = l
		}
		if l, err := s.listings.Get(ctx, t.RequestedListingID); err == nil {
			t.RequestedListing = l
		}
		if u, err := s.users.GetByEmail(ctx, t.OffererEmail); err == nil {
			t.OffererName = u.FullName
		}
		if u, err := s.users.GetByEmail(ctx, t.ReceiverEmail); err == nil {
			t.ReceiverName = u.FullName
		}
	}
}
