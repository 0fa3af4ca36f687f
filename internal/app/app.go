package app

import (
	"errors"
	"fmt"
	"time"

	"fieldserve_backend/internal/auth"
	"fieldserve_backend/internal/cache"
	"fieldserve_backend/internal/config"
	"fieldserve_backend/internal/handlers"
	"fieldserve_backend/internal/imageprocessor"
	"fieldserve_backend/internal/logger"
	"fieldserve_backend/internal/middleware"
	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/repositories"
	"fieldserve_backend/internal/routes"
	"fieldserve_backend/internal/services"
	"fieldserve_backend/internal/storage"
	"fieldserve_backend/internal/validator"
	"fieldserve_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.InitJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := autoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var attachmentCache *cache.AttachmentCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		attachmentCache = cache.NewAttachmentCache(rdb, 5*time.Minute)
		logger.Info("Redis cache enabled", "addr", cfg.Redis.Addr)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(gormDB)
	clientRepo := repositories.NewClientRepository(gormDB)
	equipmentRepo := repositories.NewEquipmentRepository(gormDB)
	orderRepo := repositories.NewServiceOrderRepository(gormDB)
	attachmentRepo := repositories.NewAttachmentRepository(gormDB)

	// Services
	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality)
	authService := services.NewAuthService(userRepo)
	clientService := services.NewClientService(clientRepo)
	equipmentService := services.NewEquipmentService(equipmentRepo, clientRepo)
	orderService := services.NewServiceOrderService(orderRepo, clientRepo)
	attachmentService := services.NewAttachmentService(attachmentRepo, storageInstance, attachmentCache, processor, services.AttachmentConfig{
		MaxFileSize: cfg.Upload.MaxSize,
		Thumbnails:  cfg.Upload.Thumbnails,
	})

	// Handlers
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, authService),
		ClientHandler:       handlers.NewClientHandler(baseHandler, clientService),
		EquipmentHandler:    handlers.NewEquipmentHandler(baseHandler, equipmentService),
		ServiceOrderHandler: handlers.NewServiceOrderHandler(baseHandler, orderService),
		AttachmentHandler:   handlers.NewAttachmentHandler(baseHandler, attachmentService),
		FileHandler:         handlers.NewFileHandler(baseHandler, storageInstance),
	}

	// WebSocket preview sessions
	previewManager := ws.NewPreviewManager()
	go previewManager.Run()
	resetDelay := time.Duration(cfg.Preview.ResetDelayMs) * time.Millisecond
	previewHandler := ws.NewPreviewHandler(previewManager, attachmentService, resetDelay)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, previewHandler, cfg.Storage.Type == "local")

	return ginRouter
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Equipment{},
		&models.ServiceOrder{},
		&models.Attachment{},
	)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Active:       true,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
