package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/storefront-api/internal/config"
	domainRepo "github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/infrastructure/database"
	"github.com/sangkips/storefront-api/internal/presentation/http/handler"
	"github.com/sangkips/storefront-api/internal/presentation/http/middleware"
	"github.com/sangkips/storefront-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Tenant    *handler.TenantHandler
	Customer  *handler.CustomerHandler
	Product   *handler.ProductHandler
	Register  *handler.RegisterHandler
	Order     *handler.OrderHandler
	Payment   *handler.PaymentHandler
	Statement *handler.StatementHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	TenantRepo      domainRepo.TenantRepository
	// Metrics is served on Cfg.Metrics.Path when set
	Metrics prometheus.Gatherer
	// Ping reports database health on /health when set
	Ping func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.Cfg.Metrics.Enabled && deps.Metrics != nil {
		router.GET(deps.Cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.TenantRepo != nil {
			protected.Use(middleware.TenantMiddleware(deps.TenantRepo))
		}

		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfigFrom(deps.Cfg.RateLimit))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	registerTenantRoutes(protected, h)

	// Everything below acts on one shop's data.
	shop := protected.Group("")
	shop.Use(middleware.RequireTenant())
	shop.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	}))

	registerCustomerRoutes(shop, h)
	registerProductRoutes(shop, h)
	registerRegisterRoutes(shop, h)
	registerOrderRoutes(shop, h)
	registerPaymentRoutes(shop, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("", h.Tenant.ListMine)
		tenants.POST("", h.Tenant.Create)
		tenants.GET("/current", h.Tenant.GetCurrentTenant)
		tenants.PUT("/current", middleware.RequireRole(database.RoleAdmin, database.RoleSuperAdmin), h.Tenant.UpdateTenant)
	}
}

func registerCustomerRoutes(shop *gin.RouterGroup, h *Handlers) {
	customers := shop.Group("/customers")
	{
		manage := middleware.RequirePermission(database.PermManageCustomers)
		customers.GET("", manage, h.Customer.List)
		customers.POST("", manage, h.Customer.Create)
		customers.GET("/:id", manage, h.Customer.Get)
		customers.PUT("/:id", manage, h.Customer.Update)
		customers.DELETE("/:id", manage, h.Customer.Delete)

		payments := middleware.RequirePermission(database.PermManagePayments)
		customers.GET("/:id/payments", payments, h.Payment.List)
		customers.POST("/:id/payments", payments, h.Payment.Create)

		statements := middleware.RequirePermission(database.PermViewStatements)
		customers.GET("/:id/statement", statements, h.Statement.Get)
		customers.GET("/:id/statement/export", statements, h.Statement.Export)
		customers.POST("/:id/statement/email", statements, h.Statement.Email)
	}
}

func registerProductRoutes(shop *gin.RouterGroup, h *Handlers) {
	products := shop.Group("/products")
	products.Use(middleware.RequirePermission(database.PermManageProducts))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", h.Product.Import)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerRegisterRoutes(shop *gin.RouterGroup, h *Handlers) {
	registers := shop.Group("/registers")
	registers.Use(middleware.RequirePermission(database.PermManageRegisters))
	{
		registers.GET("", h.Register.List)
		registers.POST("", h.Register.Create)
		registers.GET("/:id", h.Register.Get)
		registers.PUT("/:id", h.Register.Update)
		registers.DELETE("/:id", h.Register.Deactivate)
	}
}

func registerOrderRoutes(shop *gin.RouterGroup, h *Handlers) {
	orders := shop.Group("/orders")
	orders.Use(middleware.RequirePermission(database.PermManageOrders))
	{
		orders.GET("", h.Order.List)
		// Checkout must carry an Idempotency-Key so a retried sale is not rung up twice
		orders.POST("", middleware.RequireIdempotencyKey(), h.Order.Create)
		orders.GET("/due", h.Order.GetDueOrders)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.POST("/:id/pay", middleware.RequirePermission(database.PermManagePayments), h.Order.Pay)
	}
}

func registerPaymentRoutes(shop *gin.RouterGroup, h *Handlers) {
	payments := shop.Group("/payments")
	payments.Use(middleware.RequirePermission(database.PermManagePayments))
	{
		payments.GET("/:id", h.Payment.Get)
		payments.DELETE("/:id", h.Payment.Void)
	}
}
