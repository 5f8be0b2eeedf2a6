package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sangkips/storefront-api/internal/application/service"
	"github.com/sangkips/storefront-api/internal/config"
	"github.com/sangkips/storefront-api/internal/infrastructure/database"
	"github.com/sangkips/storefront-api/internal/infrastructure/events"
	"github.com/sangkips/storefront-api/internal/infrastructure/metrics"
	"github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/internal/presentation/http/handler"
	"github.com/sangkips/storefront-api/internal/presentation/http/routes"
	"github.com/sangkips/storefront-api/pkg/email"
	"github.com/sangkips/storefront-api/pkg/oauth"
	"github.com/sangkips/storefront-api/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	logger, err := config.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// Load configuration
	cfg := config.Load(logger)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	seed := database.Seed{
		AdminEmail:    viper.GetString("ADMIN_EMAIL"),
		AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		AdminName:     viper.GetString("ADMIN_NAME"),
	}
	if err := database.SeedDefaultData(db, seed, logger); err != nil {
		logger.Warn("failed to seed default data", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Init(registry)

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderDetailRepo := repository.NewOrderDetailRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	statementRepo := repository.NewStatementRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Lookups skip expired keys; the rows themselves are dropped once per boot
	if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
		logger.Warn("failed to prune expired idempotency keys", zap.Error(err))
	}

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo)
	authService := service.NewAuthService(userRepo, roleRepo, tenantRepo, tenantService, tx, jwtManager, googleOAuthService, logger)
	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo)
	registerService := service.NewRegisterService(registerRepo)
	paymentService := service.NewPaymentService(paymentRepo, customerRepo, orderRepo, registerRepo, tenantRepo, tx, publisher, logger)
	orderService := service.NewOrderService(orderRepo, orderDetailRepo, productRepo, customerRepo, paymentRepo, registerRepo, tenantRepo, paymentService, tx, publisher, logger)
	statementService := service.NewStatementService(customerRepo, statementRepo, tenantRepo, emailService, publisher, cfg.Statement, logger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.OAuth),
		Tenant:    handler.NewTenantHandler(tenantService),
		Customer:  handler.NewCustomerHandler(customerService),
		Product:   handler.NewProductHandler(productService),
		Register:  handler.NewRegisterHandler(registerService),
		Order:     handler.NewOrderHandler(orderService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Statement: handler.NewStatementHandler(statementService),
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database handle", zap.Error(err))
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
		TenantRepo:      tenantRepo,
		Metrics:         registry,
		Ping:            sqlDB.PingContext,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shut down", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
}
