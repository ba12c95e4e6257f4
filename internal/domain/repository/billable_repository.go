package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// ErrBillableNotFound is returned by WithLock when the reservation or order does not exist.
var ErrBillableNotFound = errors.New("billable entity not found")

// Billable is the kind-independent view of a reservation or restaurant order
// used by the payment ledger and the discount workflow.
type Billable struct {
	Kind      enum.BillableKind
	ID        uuid.UUID
	BranchID  uuid.UUID
	Reference string
	Status    string
	// Final is true once the entity is settled or cancelled; it accepts no more edits.
	Final    bool
	Snapshot entity.BillingSnapshot
	Lines    []billing.Line
	Payments []entity.Payment
}

// Ledger returns the billing ledger over the loaded payments.
func (b *Billable) Ledger() billing.Ledger {
	return billing.Ledger{
		Total:    b.Snapshot.TotalAmount,
		Records:  entity.LedgerEntries(b.Payments),
		Fallback: b.Snapshot.PaidAmount,
	}
}

// BillableTx is the write side available while a billable row is locked.
type BillableTx interface {
	// AppendPayment inserts a new ledger record.
	AppendPayment(ctx context.Context, p *entity.Payment) error
	// SavePaidAmount refreshes the paid_amount cache.
	SavePaidAmount(ctx context.Context, paid money.Money) error
	// SaveCharges persists the computed charge fields and discount.
	SaveCharges(ctx context.Context, s entity.BillingSnapshot) error
	// MarkSettled moves the entity to its settled status.
	MarkSettled(ctx context.Context) error
}

// BillableRepository loads and mutates reservations and orders through one interface.
type BillableRepository interface {
	// Get returns nil, nil if the entity does not exist in the caller's branch.
	Get(ctx context.Context, kind enum.BillableKind, id uuid.UUID) (*Billable, error)
	// WithLock runs fn in a transaction holding a row lock on the entity.
	// The Billable passed to fn is read under that lock.
	WithLock(ctx context.Context, kind enum.BillableKind, id uuid.UUID, fn func(b *Billable, tx BillableTx) error) error
}

// PaymentRepository reads ledger records.
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	ListByBillable(ctx context.Context, kind enum.BillableKind, id uuid.UUID) ([]entity.Payment, error)
}
