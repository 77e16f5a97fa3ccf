package app

import (
	"context"
	"fmt"

	"bloodbridge_backend/internal/config"
	"bloodbridge_backend/internal/email"
	"bloodbridge_backend/internal/events"
	"bloodbridge_backend/internal/handlers"
	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/middleware"
	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/push"
	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/internal/routes"
	"bloodbridge_backend/internal/services"
	"bloodbridge_backend/internal/validator"
	"bloodbridge_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

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

	// Контекст фоновых задач живет до остановки процесса
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает весь граф зависимостей и запускает фоновые
// задачи. Вынесен отдельно, чтобы интеграционные тесты могли поднять
// приложение на собственной БД.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer, repos := initializeServices(cfg, gormDB)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Запускаем монитор фида и фоновые воркеры
	monitor := events.NewChangeMonitor(repos.changeLogRepo, serviceContainer.DispatchService, cfg.MonitorInterval())
	go monitor.Start(ctx)

	workers.NewExpiryWorker(repos.requestRepo, cfg.ExpiryInterval()).Start(ctx)
	workers.NewCleanupWorker(repos.requestRepo, repos.notificationRepo, serviceContainer.DispatchService, cfg.CleanupInterval()).Start(ctx)

	// 4. Инициализируем Gin
	ginRouter := initializeGinRouter()

	// 5. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

// repoSet отдает нижний слой наружу, он нужен монитору и воркерам.
type repoSet struct {
	requestRepo      repositories.RequestRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	changeLogRepo    repositories.ChangeLogRepository
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) (*services.ServiceContainer, *repoSet) {
	// --- Инициализация репозиториев ---
	changeLogRepo := repositories.NewChangeLogRepository(gormDB)
	requestRepo := repositories.NewRequestRepository(gormDB, changeLogRepo)
	userRepo := repositories.NewUserRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// --- Push-шлюз ---
	var gateway push.Gateway
	if cfg.Push.Enabled {
		pushCfg := push.DefaultConfig()
		pushCfg.ServerKey = cfg.Push.ServerKey
		pushCfg.Timeout = cfg.PushTimeout()
		if cfg.Push.Endpoint != "" {
			pushCfg.Endpoint = cfg.Push.Endpoint
		}
		gateway = push.NewFCMGateway(pushCfg)
		if err := gateway.Validate(); err != nil {
			logger.Fatal("Invalid push gateway configuration", "error", err)
		}
		logger.Info("Push gateway initialized")
	} else {
		logger.Warn("--- Push-шлюз отключен. Сообщения пишутся в лог. ---")
		gateway = &LogGateway{}
	}

	// --- Email-провайдер ---
	var emailService email.Provider
	if cfg.Email.Enabled {
		renderer, err := email.NewTemplateManager()
		if err != nil {
			logger.Fatal("Failed to initialize email templates", "error", err)
		}
		smtpCfg := email.DefaultConfig()
		smtpCfg.Host = cfg.Email.SMTPHost
		smtpCfg.Port = cfg.Email.SMTPPort
		smtpCfg.Username = cfg.Email.SMTPUsername
		smtpCfg.Password = cfg.Email.SMTPPassword
		smtpCfg.FromEmail = cfg.Email.FromEmail
		smtpCfg.FromName = cfg.Email.FromName
		smtpCfg.UseTLS = cfg.Email.UseTLS
		emailService = email.NewSMTPProvider(smtpCfg, renderer)
		logger.Info("Email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		logger.Warn("--- Email-канал отключен. Используется MOCK. ---")
		emailService = &MockEmailProvider{}
	}

	// --- Инициализация сервисов ---
	var emailForDelivery email.Provider
	if cfg.Email.Enabled {
		emailForDelivery = emailService
	}
	deliveryService := services.NewDeliveryService(notificationRepo, userRepo, gateway, emailForDelivery)
	dispatchService := services.NewDispatchService(userRepo, notificationRepo, deliveryService)
	requestService := services.NewRequestService(requestRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	container := &services.ServiceContainer{
		RequestService:      requestService,
		NotificationService: notificationService,
		DispatchService:     dispatchService,
		DeliveryService:     deliveryService,
		EmailService:        emailService,
	}

	return container, &repoSet{
		requestRepo:      requestRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		changeLogRepo:    changeLogRepo,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		RequestHandler:      handlers.NewRequestHandler(baseHandler, container.RequestService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService, container.DispatchService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	return router
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Request{},
		&models.Notification{},
		&models.EntityChange{},
	)
}
