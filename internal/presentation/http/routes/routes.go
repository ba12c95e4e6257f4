package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth               *handler.AuthHandler
	Charge             *handler.ChargeHandler
	Reservation        *handler.ReservationHandler
	Order              *handler.OrderHandler
	ReservationBilling *handler.BillingHandler
	OrderBilling       *handler.BillingHandler
	Inventory          *handler.InventoryHandler
	Notification       *handler.NotificationHandler
	Printer            *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	BranchRepo      domainRepo.BranchRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Per-branch rate limiter
	rateLimiter := middleware.NewBranchRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "ok",
			"service":      deps.Cfg.App.Name,
			"rate_limiter": rateLimiter.Stats(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.BranchMiddleware(deps.BranchRepo))
		protected.Use(middleware.RequireBranch())
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return rl
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile and staff
	protected.GET("/auth/me", h.Auth.GetProfile)
	protected.POST("/staff", middleware.RequireRole(entity.RoleManager), h.Auth.RegisterStaff)

	// Charges
	registerChargeRoutes(protected, h)

	// Reservations
	registerReservationRoutes(protected, h, deps)

	// Restaurant orders
	registerOrderRoutes(protected, h, deps)

	// Inventory
	registerInventoryRoutes(protected, h)

	// Notifications
	protected.GET("/notifications", h.Notification.List)
	protected.POST("/notifications/:id/read", h.Notification.MarkRead)

	// Printer
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", middleware.RequireRole(entity.RoleManager), h.Printer.TestPrint)
	}
}

func registerChargeRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/charges/preview", h.Charge.Preview)

	rules := rg.Group("/charge-rules")
	{
		rules.GET("", h.Charge.ListRules)
		rules.POST("", middleware.RequireRole(entity.RoleManager), h.Charge.CreateRule)
		rules.PUT("/:id", middleware.RequireRole(entity.RoleManager), h.Charge.UpdateRule)
		rules.DELETE("/:id", middleware.RequireRole(entity.RoleManager), h.Charge.DeleteRule)
	}
}

// registerBillingRoutes adds the payment, balance, discount and bill endpoints
// shared by reservations and orders.
func registerBillingRoutes(rg *gin.RouterGroup, kind enum.BillableKind, b *handler.BillingHandler, p *handler.PrinterHandler, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:     deps.IdempotencyRepo,
		Required: true,
	})
	cashier := middleware.RequireRole(entity.RoleCashier, entity.RoleManager)

	rg.GET("/:id/payments", b.ListPayments)
	rg.POST("/:id/payments", cashier, idempotency, b.RecordPayment)
	rg.GET("/:id/payments/suggestion", b.SuggestPayment)
	rg.GET("/:id/payments/:payment_id", b.GetPayment)
	rg.GET("/:id/balance", b.GetBalance)
	rg.POST("/:id/discount/preview", b.PreviewDiscount)
	rg.PUT("/:id/discount", cashier, b.ApplyDiscount)
	rg.GET("/:id/bill", p.GetBill(kind))
	rg.POST("/:id/bill/print", p.PrintBill(kind))
	rg.GET("/:id/bill/qr", p.BillQR(kind))
}

func registerReservationRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	reservations := rg.Group("/reservations")
	{
		reservations.GET("", h.Reservation.List)
		reservations.POST("", h.Reservation.Create)
		reservations.GET("/:id", h.Reservation.Get)
		reservations.PUT("/:id/lines", h.Reservation.ReplaceLines)
		reservations.PATCH("/:id/status", h.Reservation.UpdateStatus)
		registerBillingRoutes(reservations, enum.BillableReservation, h.ReservationBilling, h.Printer, deps)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/lines", h.Order.ReplaceLines)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/kot", h.Printer.PrintTickets)
		registerBillingRoutes(orders, enum.BillableOrder, h.OrderBilling, h.Printer, deps)
	}
}

func registerInventoryRoutes(rg *gin.RouterGroup, h *Handlers) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.POST("", middleware.RequireRole(entity.RoleManager), h.Inventory.Create)
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.GET("/:id", h.Inventory.Get)
		inventory.POST("/:id/adjust", h.Inventory.Adjust)
	}
}
