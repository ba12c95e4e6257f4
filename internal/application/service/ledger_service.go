package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/messaging"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/lock"
	"github.com/sangkips/hotel-billing-api/pkg/money"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

const defaultPaymentMethod = "cash"

// LedgerService records payments against reservations and orders and answers
// balance questions from the payment records.
//
// Every write is serialized per entity: the locker queues writers of the same
// bill (across instances when it is Redis backed) and the repository re-reads
// the row under SELECT ... FOR UPDATE before the balance check.
type LedgerService struct {
	billables        repository.BillableRepository
	payments         repository.PaymentRepository
	locker           lock.Locker
	publisher        messaging.Publisher
	allowOverpayment bool
	log              *zap.Logger
	now              func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	billables repository.BillableRepository,
	payments repository.PaymentRepository,
	locker lock.Locker,
	publisher messaging.Publisher,
	allowOverpayment bool,
	log *zap.Logger,
) *LedgerService {
	return &LedgerService{
		billables:        billables,
		payments:         payments,
		locker:           locker,
		publisher:        publisher,
		allowOverpayment: allowOverpayment,
		log:              log,
		now:              time.Now,
	}
}

// RecordPaymentInput represents a payment to append to an entity's ledger
type RecordPaymentInput struct {
	Amount               money.Money
	PaymentType          enum.PaymentType
	PaymentMethod        string
	TransactionReference string
	DueDate              *time.Time
	Notes                string
	// ExpectedRemaining is the balance the client saw; a mismatch under the lock is a conflict
	ExpectedRemaining *money.Money
	RecordedBy        *uuid.UUID
}

// Balance is the ledger-derived state of one bill.
type Balance struct {
	Kind         enum.BillableKind `json:"billable_type"`
	ID           uuid.UUID         `json:"billable_id"`
	Reference    string            `json:"reference"`
	Status       string            `json:"status"`
	Total        money.Money       `json:"total_amount"`
	Paid         money.Money       `json:"paid_amount"`
	Remaining    money.Money       `json:"remaining_amount"`
	PaymentState string            `json:"payment_state"`
}

func newBalance(b *repository.Billable, l billing.Ledger) *Balance {
	paid, remaining := l.Paid(), l.Remaining()
	state := "partial"
	switch {
	case remaining == 0:
		state = "settled"
	case paid == 0:
		state = "unpaid"
	}
	return &Balance{
		Kind:         b.Kind,
		ID:           b.ID,
		Reference:    b.Reference,
		Status:       b.Status,
		Total:        l.Total,
		Paid:         paid,
		Remaining:    remaining,
		PaymentState: state,
	}
}

// RecordPaymentResult is the stored record plus the balance after it
type RecordPaymentResult struct {
	Payment *entity.Payment `json:"payment"`
	Balance *Balance        `json:"balance"`
}

// RecordPayment appends a completed payment to the entity's ledger
func (s *LedgerService) RecordPayment(ctx context.Context, kind enum.BillableKind, id uuid.UUID, input *RecordPaymentInput) (*RecordPaymentResult, error) {
	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}

	var result *RecordPaymentResult
	err := withBillableLock(ctx, s.locker, kind, id, func() error {
		return s.billables.WithLock(ctx, kind, id, func(b *repository.Billable, tx repository.BillableTx) error {
			if b.Final {
				return closedError(kind, b.Status)
			}

			ledger := b.Ledger()
			if input.ExpectedRemaining != nil && *input.ExpectedRemaining != ledger.Remaining() {
				return apperror.NewConcurrencyConflict("Balance changed to " + ledger.Remaining().String() + ", please review and retry")
			}

			req := billing.PaymentRequest{Amount: input.Amount, Type: input.PaymentType, DueDate: input.DueDate}
			if err := ledger.Admit(req, s.allowOverpayment); err != nil {
				return err
			}

			payment := &entity.Payment{
				ReceiptNo:            utils.GenerateReferenceNo(utils.PrefixReceipt, s.now()),
				Amount:               input.Amount,
				PaymentType:          input.PaymentType,
				PaymentMethod:        method,
				Status:               enum.PaymentStatusCompleted,
				TransactionReference: input.TransactionReference,
				DueDate:              input.DueDate,
				Notes:                input.Notes,
				RecordedBy:           input.RecordedBy,
			}
			if err := tx.AppendPayment(ctx, payment); err != nil {
				return err
			}

			ledger.Records = append(ledger.Records, payment.Entry())
			if err := tx.SavePaidAmount(ctx, ledger.Paid()); err != nil {
				return err
			}
			if ledger.Paid() > 0 && ledger.Remaining() == 0 {
				if err := tx.MarkSettled(ctx); err != nil {
					return err
				}
				b.Status = "settled"
			}

			result = &RecordPaymentResult{Payment: payment, Balance: newBalance(b, ledger)}
			return nil
		})
	})
	if err != nil {
		return nil, billableNotFound(kind, err)
	}

	s.publish(ctx, result)
	return result, nil
}

func (s *LedgerService) publish(ctx context.Context, r *RecordPaymentResult) {
	ev := messaging.PaymentRecorded{
		Type:         messaging.EventPaymentRecorded,
		PaymentID:    r.Payment.ID,
		ReceiptNo:    r.Payment.ReceiptNo,
		BranchID:     r.Payment.BranchID,
		BillableType: r.Balance.Kind.String(),
		BillableID:   r.Balance.ID,
		Reference:    r.Balance.Reference,
		Amount:       r.Payment.Amount,
		PaymentType:  r.Payment.PaymentType.String(),
		Paid:         r.Balance.Paid,
		Remaining:    r.Balance.Remaining,
		OccurredAt:   r.Payment.CreatedAt,
	}
	if err := s.publisher.PublishPayment(ctx, ev); err != nil {
		s.log.Warn("failed to publish payment event",
			zap.String("receipt_no", ev.ReceiptNo),
			zap.String("reference", ev.Reference),
			zap.Error(err),
		)
	}
}

func (s *LedgerService) load(ctx context.Context, kind enum.BillableKind, id uuid.UUID) (*repository.Billable, error) {
	b, err := s.billables.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.NewNotFoundError(kind.Title())
	}
	return b, nil
}

// GetBalance returns total, paid and remaining derived from the ledger
func (s *LedgerService) GetBalance(ctx context.Context, kind enum.BillableKind, id uuid.UUID) (*Balance, error) {
	b, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return newBalance(b, b.Ledger()), nil
}

// ListPayments returns the entity's ledger in insertion order
func (s *LedgerService) ListPayments(ctx context.Context, kind enum.BillableKind, id uuid.UUID) ([]entity.Payment, error) {
	if _, err := s.load(ctx, kind, id); err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByBillable(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []entity.Payment{}
	}
	return payments, nil
}

// GetPayment retrieves a single ledger record of the given bill
func (s *LedgerService) GetPayment(ctx context.Context, kind enum.BillableKind, billableID, paymentID uuid.UUID) (*entity.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.BillableType != kind || p.BillableID != billableID {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return p, nil
}

// Suggestion is the pre-fill amount for a payment form
type Suggestion struct {
	PaymentType enum.PaymentType `json:"payment_type"`
	Amount      money.Money      `json:"suggested_amount"`
	Total       money.Money      `json:"total_amount"`
	Remaining   money.Money      `json:"remaining_amount"`
}

// Suggest proposes an amount for the given payment type
func (s *LedgerService) Suggest(ctx context.Context, kind enum.BillableKind, id uuid.UUID, t enum.PaymentType) (*Suggestion, error) {
	if !t.IsValid() {
		return nil, apperror.NewFieldError("payment_type", "must be one of advance, partial, full, credit")
	}
	b, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	l := b.Ledger()
	return &Suggestion{
		PaymentType: t,
		Amount:      l.Suggest(t),
		Total:       l.Total,
		Remaining:   l.Remaining(),
	}, nil
}
