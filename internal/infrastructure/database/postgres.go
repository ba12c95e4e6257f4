package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		// Organization
		&entity.Branch{},
		&entity.Staff{},

		// Billing
		&entity.ChargeRule{},
		&entity.Reservation{},
		&entity.ReservationLine{},
		&entity.RestaurantOrder{},
		&entity.OrderLine{},
		&entity.Payment{},

		// Inventory
		&entity.InventoryItem{},
		&entity.StockAdjustment{},
		&entity.Notification{},

		// System
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the default branch, its standard charge rules and
// the admin account configured through ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedDefaultData(db *gorm.DB, currency string, log *zap.Logger) error {
	log.Info("seeding default data")

	code := viper.GetString("BRANCH_CODE")
	if code == "" {
		code = "MAIN"
	}

	var branch entity.Branch
	if err := db.Where("code = ?", code).First(&branch).Error; err != nil {
		name := viper.GetString("BRANCH_NAME")
		if name == "" {
			name = "Main Branch"
		}
		branch = entity.Branch{Name: name, Code: code, Currency: currency}
		if err := db.Create(&branch).Error; err != nil {
			return fmt.Errorf("failed to create default branch: %w", err)
		}

		rules := []entity.ChargeRule{
			{Name: "VAT", Rate: decimal.NewFromInt(13), Active: true, AppliesTo: enum.BillableReservation, SortOrder: 1},
			{Name: "Service Charge", Rate: decimal.NewFromInt(10), Active: true, AppliesTo: enum.BillableOrder, SortOrder: 1},
			{Name: "VAT", Rate: decimal.NewFromInt(13), Active: true, AppliesTo: enum.BillableOrder, SortOrder: 2},
		}
		for i := range rules {
			rules[i].BranchID = branch.ID
			if err := db.Create(&rules[i]).Error; err != nil {
				log.Warn("failed to create charge rule", zap.String("name", rules[i].Name), zap.Error(err))
			}
		}
		log.Info("default branch created", zap.String("code", code))
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		log.Info("default data seeding completed")
		return nil
	}

	var existing entity.Staff
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Info("admin account already exists", zap.String("email", adminEmail))
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if adminName == "" {
		adminName = "Administrator"
	}

	admin := entity.Staff{
		BranchID: branch.ID,
		Name:     adminName,
		Email:    adminEmail,
		Password: string(hashed),
		Role:     entity.RoleAdmin,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Warn("failed to create admin account", zap.Error(err))
	} else {
		log.Info("admin account created", zap.String("email", adminEmail))
	}

	log.Info("default data seeding completed")
	return nil
}
