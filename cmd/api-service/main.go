package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/db"
	"github.com/campusswap/campusswap-api/internal/services/auth"
	"github.com/campusswap/campusswap-api/internal/services/cloudinary"
	"github.com/campusswap/campusswap-api/internal/services/contact"
	"github.com/campusswap/campusswap-api/internal/services/favorite"
	"github.com/campusswap/campusswap-api/internal/services/listing"
	"github.com/campusswap/campusswap-api/internal/services/trade"
	"github.com/campusswap/campusswap-api/internal/store/postgres"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "CampusSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Хранилища поверх Postgres
	users := postgres.NewUserStore()
	listings := postgres.NewListingStore()
	trades := postgres.NewTradeStore()
	contacts := postgres.NewContactRequestStore()

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, users)
	listingService := listing.NewListingService(cfg, listings, users)
	tradeService := trade.NewTradeService(cfg, trades, listings, users)
	contactService := contact.NewContactService(cfg, contacts, listings, users)
	favoriteService := favorite.NewFavoriteService(cfg)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)

	// Регистрируем маршруты
	listingService.SetupPublicRoutes(app)
	authService.SetupRoutes(app)
	listingService.SetupRoutes(app)
	tradeService.SetupRoutes(app)
	contactService.SetupRoutes(app)
	favoriteService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)

	// Запускаем сервер
	log.Printf("✅ CampusSwap API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
