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
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/cache"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/messaging"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/notify"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/routes"
	"github.com/sangkips/hotel-billing-api/pkg/email"
	"github.com/sangkips/hotel-billing-api/pkg/lock"
	"github.com/sangkips/hotel-billing-api/pkg/logger"
	"github.com/sangkips/hotel-billing-api/pkg/printer"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg.Billing.Currency, log); err != nil {
		log.Warn("failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	staffRepo := repository.NewStaffRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	orderRepo := repository.NewRestaurantOrderRepository(db)
	billableRepo := repository.NewBillableRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	var chargeRuleRepo domainRepo.ChargeRuleRepository = repository.NewChargeRuleRepository(db)

	// Redis backs the charge-rule cache and the cross-instance payment lock
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unavailable, using in-process lock and no rule cache", zap.Error(err))
		} else {
			chargeRuleRepo = cache.NewChargeRuleCache(chargeRuleRepo, rdb, cfg.Redis.ChargeRuleTTL, log)
			locker = lock.NewRedisLocker(rdb, "billing:lock:",
				lock.WithTTL(cfg.Redis.LockTTL),
				lock.WithRetryDelay(cfg.Redis.LockRetryDelay),
			)
		}
	}

	// Event publisher
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewKafkaPublisher(
			messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.PaymentTopic, cfg.Kafka.WriteTimeout),
			messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.StockTopic, cfg.Kafka.WriteTimeout),
		)
	}
	defer publisher.Close()

	// Low-stock notifiers
	notifiers := []notify.Notifier{
		notify.NewDBNotifier(notificationRepo),
		notify.NewEventNotifier(publisher),
	}
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})
	if emailService.Enabled() && cfg.LowStock.AlertEmail != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(emailService, branchRepo, cfg.LowStock.AlertEmail))
	}
	if cfg.SMS.AccountSID != "" && cfg.LowStock.AlertPhone != "" {
		twilioAPI := notify.NewTwilioAPI(cfg.SMS.AccountSID, cfg.SMS.AuthToken)
		notifiers = append(notifiers, notify.NewSMSNotifier(twilioAPI, cfg.SMS.From, cfg.LowStock.AlertPhone, log))
	}
	notifier := notify.NewMulti(log, notifiers...)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn("failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(staffRepo, branchRepo, jwtManager)
	chargeService := service.NewChargeService(chargeRuleRepo)
	reservationService := service.NewReservationService(reservationRepo, chargeService, locker)
	orderService := service.NewOrderService(orderRepo, reservationRepo, chargeService, locker)
	ledgerService := service.NewLedgerService(billableRepo, paymentRepo, locker, publisher, cfg.Billing.AllowOverpayment, log)
	discountService := service.NewDiscountService(billableRepo, chargeService, locker)
	lowStockMonitor := service.NewLowStockMonitor(inventoryRepo, notifier, log)
	inventoryService := service.NewInventoryService(inventoryRepo, lowStockMonitor)
	notificationService := service.NewNotificationService(notificationRepo)
	printerService := service.NewPrinterService(thermalPrinter, reservationRepo, orderRepo, paymentRepo, branchRepo, service.PrinterOptions{
		Type:   cfg.Printer.Type,
		Width:  cfg.Printer.Width,
		QRBase: cfg.Printer.QRBase,
	}, log)

	// Background jobs
	if err := lowStockMonitor.Start(cfg.LowStock.Schedule); err != nil {
		log.Fatal("invalid low stock schedule", zap.String("schedule", cfg.LowStock.Schedule), zap.Error(err))
	}
	defer lowStockMonitor.Stop()

	housekeeping := cron.New()
	if _, err := housekeeping.AddFunc("@hourly", func() {
		if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
			log.Warn("failed to purge idempotency keys", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("failed to schedule housekeeping", zap.Error(err))
	}
	housekeeping.Start()
	defer housekeeping.Stop()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:               handler.NewAuthHandler(authService),
		Charge:             handler.NewChargeHandler(chargeService),
		Reservation:        handler.NewReservationHandler(reservationService),
		Order:              handler.NewOrderHandler(orderService),
		ReservationBilling: handler.NewBillingHandler(enum.BillableReservation, ledgerService, discountService),
		OrderBilling:       handler.NewBillingHandler(enum.BillableOrder, ledgerService, discountService),
		Inventory:          handler.NewInventoryHandler(inventoryService),
		Notification:       handler.NewNotificationHandler(notificationService),
		Printer:            handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          log,
		IdempotencyRepo: idempotencyRepo,
		BranchRepo:      branchRepo,
	})

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
		log.Info("starting server", zap.String("name", cfg.App.Name), zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
}
