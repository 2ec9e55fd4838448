package main

import (
	"log"
	"net/http"

	_ "marketplace/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"marketplace/internal/auth"
	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/handler"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/router"
	"marketplace/internal/service"
	"marketplace/internal/ws"
)

// @title Marketplace API
// @version 1.0
// @description Marketplace backend with catalog, orders, chat and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.Chat{},
		&model.Message{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	analyticsRepo := repository.NewAnalyticsRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	hub := ws.NewHub()
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, cacheClient)
	importService := service.NewBulkImportService(productRepo, categoryRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, notificationService, cacheClient, cfg.LowStockThreshold)
	reviewService := service.NewReviewService(reviewRepo, productRepo, notificationService)
	chatService := service.NewChatService(chatRepo, userRepo, hub)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Product:      handler.NewProductHandler(productService, importService),
		Category:     handler.NewCategoryHandler(categoryService),
		Order:        handler.NewOrderHandler(orderService),
		Chat:         handler.NewChatHandler(chatService),
		Notification: handler.NewNotificationHandler(notificationService),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		Review:       handler.NewReviewHandler(reviewService),
		ChatStream:   ws.NewHandler(hub, jwtService, userRepo, chatService),
	}

	router.Register(e, cfg, userRepo, handlers)

	addr := ":" + cfg.ServerPort
	log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
