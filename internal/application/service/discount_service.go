package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/lock"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// DiscountService runs the discount edit workflow against stored bills
type DiscountService struct {
	billables repository.BillableRepository
	charges   *ChargeService
	locker    lock.Locker
}

// NewDiscountService creates a new discount service
func NewDiscountService(billables repository.BillableRepository, charges *ChargeService, locker lock.Locker) *DiscountService {
	return &DiscountService{billables: billables, charges: charges, locker: locker}
}

// DiscountPreview is the breakdown a draft discount would produce
type DiscountPreview struct {
	Persisted billing.DiscountSpec `json:"persisted"`
	Draft     billing.DiscountSpec `json:"draft"`
	Breakdown billing.Breakdown    `json:"breakdown"`
	Remaining money.Money          `json:"remaining_amount"`
}

// DiscountResult holds the server values after a discount is applied
type DiscountResult struct {
	Discount  billing.DiscountSpec   `json:"discount"`
	Snapshot  entity.BillingSnapshot `json:"snapshot"`
	Remaining money.Money            `json:"remaining_amount"`
}

// PreviewDiscount computes the effect of spec without persisting anything
func (s *DiscountService) PreviewDiscount(ctx context.Context, kind enum.BillableKind, id uuid.UUID, spec billing.DiscountSpec) (*DiscountPreview, error) {
	b, err := s.billables.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.NewNotFoundError(kind.Title())
	}
	rules, err := s.charges.ActiveRules(ctx, kind)
	if err != nil {
		return nil, err
	}

	editor := billing.NewDiscountEditor(b.Snapshot.Discount())
	if err := editor.Begin(); err != nil {
		return nil, err
	}
	if err := editor.SetDraft(spec); err != nil {
		return nil, err
	}
	breakdown, err := editor.Preview(b.Lines, rules)
	if err != nil {
		return nil, err
	}

	return &DiscountPreview{
		Persisted: editor.Persisted(),
		Draft:     editor.Draft(),
		Breakdown: breakdown,
		Remaining: billing.RemainingAmount(breakdown.Total, b.Ledger().Paid()),
	}, nil
}

// ApplyDiscount persists spec and the recomputed charges. Concurrent edits of
// the same bill are queued on the entity lock and the last one wins.
func (s *DiscountService) ApplyDiscount(ctx context.Context, kind enum.BillableKind, id uuid.UUID, spec billing.DiscountSpec) (*DiscountResult, error) {
	rules, err := s.charges.ActiveRules(ctx, kind)
	if err != nil {
		return nil, err
	}

	var result *DiscountResult
	err = withBillableLock(ctx, s.locker, kind, id, func() error {
		return s.billables.WithLock(ctx, kind, id, func(b *repository.Billable, tx repository.BillableTx) error {
			if b.Final {
				return closedError(kind, b.Status)
			}

			editor := billing.NewDiscountEditor(b.Snapshot.Discount())
			if err := editor.Begin(); err != nil {
				return err
			}
			if err := editor.SetDraft(spec); err != nil {
				return err
			}
			breakdown, err := editor.Preview(b.Lines, rules)
			if err != nil {
				return err
			}
			draft, err := editor.Submit()
			if err != nil {
				return err
			}

			snapshot := b.Snapshot
			snapshot.Apply(breakdown, draft)
			ledger := b.Ledger()
			ledger.Total = snapshot.TotalAmount
			snapshot.PaidAmount = ledger.Paid()

			if err := s.save(ctx, tx, snapshot, ledger); err != nil {
				return errors.Join(err, editor.Fail())
			}
			if err := editor.Confirm(draft); err != nil {
				return err
			}

			result = &DiscountResult{Discount: editor.Persisted(), Snapshot: snapshot, Remaining: ledger.Remaining()}
			return nil
		})
	})
	if err != nil {
		return nil, billableNotFound(kind, err)
	}
	return result, nil
}

func (s *DiscountService) save(ctx context.Context, tx repository.BillableTx, snapshot entity.BillingSnapshot, ledger billing.Ledger) error {
	if err := tx.SaveCharges(ctx, snapshot); err != nil {
		return err
	}
	if ledger.Paid() > 0 && ledger.Remaining() == 0 {
		return tx.MarkSettled(ctx)
	}
	return nil
}
