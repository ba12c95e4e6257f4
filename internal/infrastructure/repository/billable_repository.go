package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

type billableRepository struct {
	db *gorm.DB
}

// NewBillableRepository creates the repository shared by the ledger and discount services
func NewBillableRepository(db *gorm.DB) domainRepo.BillableRepository {
	return &billableRepository{db: db}
}

func (r *billableRepository) Get(ctx context.Context, kind enum.BillableKind, id uuid.UUID) (*domainRepo.Billable, error) {
	b, err := loadBillable(ctx, r.db.WithContext(ctx), kind, id, false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return b, err
}

func (r *billableRepository) WithLock(ctx context.Context, kind enum.BillableKind, id uuid.UUID, fn func(b *domainRepo.Billable, tx domainRepo.BillableTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := loadBillable(ctx, tx, kind, id, true)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainRepo.ErrBillableNotFound
		}
		if err != nil {
			return err
		}
		return fn(b, &billableTx{tx: tx, kind: kind, id: id, branchID: b.BranchID})
	})
}

// loadBillable reads the entity row (optionally with FOR UPDATE), its lines and its payments.
func loadBillable(ctx context.Context, db *gorm.DB, kind enum.BillableKind, id uuid.UUID, lock bool) (*domainRepo.Billable, error) {
	q := db.Scopes(BranchScope(ctx))
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	b := &domainRepo.Billable{Kind: kind}
	switch kind {
	case enum.BillableReservation:
		var res entity.Reservation
		if err := q.First(&res, "id = ?", id).Error; err != nil {
			return nil, err
		}
		var lines []entity.ReservationLine
		if err := db.Where("reservation_id = ?", id).Order("position").Find(&lines).Error; err != nil {
			return nil, err
		}
		b.ID, b.BranchID, b.Reference, b.Snapshot = res.ID, res.BranchID, res.ReservationNo, res.BillingSnapshot
		b.Status, b.Final = res.Status.String(), res.Status.IsFinal()
		b.Lines = make([]billing.Line, len(lines))
		for i, l := range lines {
			b.Lines[i] = l.BillingLine()
		}
	case enum.BillableOrder:
		var order entity.RestaurantOrder
		if err := q.First(&order, "id = ?", id).Error; err != nil {
			return nil, err
		}
		var lines []entity.OrderLine
		if err := db.Where("order_id = ?", id).Order("position").Find(&lines).Error; err != nil {
			return nil, err
		}
		b.ID, b.BranchID, b.Reference, b.Snapshot = order.ID, order.BranchID, order.OrderNo, order.BillingSnapshot
		b.Status, b.Final = order.Status.String(), order.Status.IsFinal()
		b.Lines = make([]billing.Line, len(lines))
		for i, l := range lines {
			b.Lines[i] = l.BillingLine()
		}
	default:
		return nil, fmt.Errorf("unknown billable kind %d", kind)
	}

	err := db.Where("billable_type = ? AND billable_id = ?", kind, id).
		Order("created_at, id").
		Find(&b.Payments).Error
	if err != nil {
		return nil, err
	}
	return b, nil
}

func billableModel(kind enum.BillableKind) interface{} {
	if kind == enum.BillableOrder {
		return &entity.RestaurantOrder{}
	}
	return &entity.Reservation{}
}

type billableTx struct {
	tx       *gorm.DB
	kind     enum.BillableKind
	id       uuid.UUID
	branchID uuid.UUID
}

func (t *billableTx) AppendPayment(ctx context.Context, p *entity.Payment) error {
	p.BillableType = t.kind
	p.BillableID = t.id
	p.BranchID = t.branchID
	return t.tx.WithContext(ctx).Create(p).Error
}

func (t *billableTx) SavePaidAmount(ctx context.Context, paid money.Money) error {
	return t.tx.WithContext(ctx).Model(billableModel(t.kind)).
		Where("id = ?", t.id).
		Update("paid_amount", paid).Error
}

func (t *billableTx) SaveCharges(ctx context.Context, s entity.BillingSnapshot) error {
	return t.tx.WithContext(ctx).Model(billableModel(t.kind)).
		Where("id = ?", t.id).
		Updates(s.ChargeColumns()).Error
}

func (t *billableTx) MarkSettled(ctx context.Context) error {
	var status interface{} = enum.ReservationStatusSettled
	if t.kind == enum.BillableOrder {
		status = enum.OrderStatusSettled
	}
	return t.tx.WithContext(ctx).Model(billableModel(t.kind)).
		Where("id = ?", t.id).
		Update("status", status).Error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var p entity.Payment
	err := r.db.WithContext(ctx).Scopes(BranchScope(ctx)).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *paymentRepository) ListByBillable(ctx context.Context, kind enum.BillableKind, id uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Where("billable_type = ? AND billable_id = ?", kind, id).
		Order("created_at, id").
		Find(&payments).Error
	return payments, err
}
