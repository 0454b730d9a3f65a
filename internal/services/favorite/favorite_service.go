package favorite

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/db"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/utils"
)

// FavoriteService представляет сервис для работы с избранными объявлениями
type FavoriteService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(cfg *config.Config) *FavoriteService {
	return &FavoriteService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// AddToFavorites добавляет объявление в избранное
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		ListingID string `json:"listing_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.ListingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID объявления не указан"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	listingUUID, err := uuid.Parse(requestData.ListingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	// Проверяем, существует ли активное объявление
	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1 AND status = 'active')
	`, listingUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки существования объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки объявления"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено или не активно"})
	}

	// Проверяем, не добавлено ли уже это объявление в избранное
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)
	`, userUUID, listingUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Объявление уже добавлено в избранное"})
	}

	favoriteID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO favorites (id, user_id, listing_id)
		VALUES ($1, $2, $3)
	`, favoriteID, userUUID, listingUUID)

	if err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка добавления в избранное"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      favoriteID,
		"message": "Объявление успешно добавлено в избранное",
	})
}

// RemoveFromFavorites удаляет объявление из избранного
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	listingID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2
	`, userUUID, listingUUID)

	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления из избранного"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено в избранном"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Объявление успешно удалено из избранного",
	})
}

// GetFavorites возвращает список избранных объявлений пользователя
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Параметры пагинации
	limit := 20
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT f.id, f.user_id, f.listing_id, f.created_at,
			   l.id, l.title, l.description, l.price, l.category, l.condition, l.images,
			   l.status, l.seller_email, l.seller_name, l.seller_phone, l.views,
			   l.created_at, l.updated_at
		FROM favorites f
		JOIN listings l ON f.listing_id = l.id
		WHERE f.user_id = $1 AND l.status = 'active'
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userUUID, limit, offset)

	if err != nil {
		log.Printf("Ошибка запроса избранных объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения избранных объявлений"})
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var favorite models.Favorite
		var listing models.Listing

		if err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.ListingID,
			&favorite.CreatedAt,
			&listing.ID,
			&listing.Title,
			&listing.Description,
			&listing.Price,
			&listing.Category,
			&listing.Condition,
			&listing.Images,
			&listing.Status,
			&listing.SellerEmail,
			&listing.SellerName,
			&listing.SellerPhone,
			&listing.Views,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		favorite.Listing = &listing
		favorites = append(favorites, favorite)
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// CheckFavorite проверяет, находится ли объявление в избранном
func (s *FavoriteService) CheckFavorite(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	listingID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)
	`, userUUID, listingUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	return c.JSON(fiber.Map{
		"is_favorite": exists,
	})
}
