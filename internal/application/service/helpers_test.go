package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/messaging"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/pkg/lock"
	applog "github.com/sangkips/hotel-billing-api/pkg/logger"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

type recordingPublisher struct {
	mu       sync.Mutex
	payments []messaging.PaymentRecorded
	stock    []messaging.StockLow
}

func (p *recordingPublisher) PublishPayment(_ context.Context, ev messaging.PaymentRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payments = append(p.payments, ev)
	return nil
}

func (p *recordingPublisher) PublishStockLow(_ context.Context, ev messaging.StockLow) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stock = append(p.stock, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Payments() []messaging.PaymentRecorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.PaymentRecorded(nil), p.payments...)
}

type fixture struct {
	db        *gorm.DB
	ctx       context.Context
	branchID  uuid.UUID
	publisher *recordingPublisher

	charges      *ChargeService
	reservations *ReservationService
	orders       *OrderService
	ledger       *LedgerService
	discounts    *DiscountService
}

// newFixture wires the billing services over sqlite for one branch with
// VAT 13% on reservations and service 10% + VAT 13% on orders.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)

	branch := entity.Branch{Name: "Lakeside", Code: strings.ToUpper(uuid.NewString()[:6]), Currency: "KES"}
	require.NoError(t, db.Create(&branch).Error)
	rules := []entity.ChargeRule{
		{BranchID: branch.ID, Name: "VAT", Rate: decimal.NewFromInt(13), Active: true, AppliesTo: enum.BillableReservation, SortOrder: 1},
		{BranchID: branch.ID, Name: "Service Charge", Rate: decimal.NewFromInt(10), Active: true, AppliesTo: enum.BillableOrder, SortOrder: 1},
		{BranchID: branch.ID, Name: "VAT", Rate: decimal.NewFromInt(13), Active: true, AppliesTo: enum.BillableOrder, SortOrder: 2},
	}
	require.NoError(t, db.Create(&rules).Error)

	locker := lock.NewKeyedMutex()
	publisher := &recordingPublisher{}
	charges := NewChargeService(infraRepo.NewChargeRuleRepository(db))
	reservationRepo := infraRepo.NewReservationRepository(db)
	billables := infraRepo.NewBillableRepository(db)

	return &fixture{
		db:           db,
		ctx:          infraRepo.WithBranch(context.Background(), branch.ID),
		branchID:     branch.ID,
		publisher:    publisher,
		charges:      charges,
		reservations: NewReservationService(reservationRepo, charges, locker),
		orders:       NewOrderService(infraRepo.NewRestaurantOrderRepository(db), reservationRepo, charges, locker),
		ledger:       NewLedgerService(billables, infraRepo.NewPaymentRepository(db), locker, publisher, false, applog.Nop()),
		discounts:    NewDiscountService(billables, charges, locker),
	}
}

// createStay books two nights at 5,000: subtotal 10,000, VAT 1,300, total 11,300.
func (f *fixture) createStay(t *testing.T) *entity.Reservation {
	t.Helper()
	checkIn := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	res, err := f.reservations.CreateReservation(f.ctx, &CreateReservationInput{
		GuestName: "Amina Noor",
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, 2),
		Lines: []ReservationLineInput{
			{RoomNumber: "204", Description: "Deluxe room", Quantity: 2, UnitAmount: money.FromMajor(5000)},
		},
	})
	require.NoError(t, err)
	return res
}

func dueIn(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}
