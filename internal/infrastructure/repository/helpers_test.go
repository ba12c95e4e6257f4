package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func branchCtx(t *testing.T, db *gorm.DB) (context.Context, uuid.UUID) {
	t.Helper()
	b := entity.Branch{Name: "Lakeside", Code: strings.ToUpper(uuid.NewString()[:6]), Currency: "KES"}
	require.NoError(t, db.Create(&b).Error)
	return WithBranch(context.Background(), b.ID), b.ID
}

func seedReservation(t *testing.T, db *gorm.DB, branchID uuid.UUID, guest string, nightly int64, nights int) *entity.Reservation {
	t.Helper()
	checkIn := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)
	res := &entity.Reservation{
		BranchID:      branchID,
		ReservationNo: "RES-" + uuid.NewString()[:8],
		GuestName:     guest,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, nights),
		Lines: []entity.ReservationLine{{
			Description: "Deluxe room",
			RoomNumber:  "101",
			Quantity:    nights,
			UnitAmount:  money.FromMajor(nightly),
			LineTotal:   money.FromMajor(nightly * int64(nights)),
		}},
	}
	res.SubTotal = money.FromMajor(nightly * int64(nights))
	res.TotalAmount = res.SubTotal
	require.NoError(t, db.Create(res).Error)
	return res
}
