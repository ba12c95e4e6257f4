package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// Payment is the ledger's view of one settlement record.
type Payment struct {
	Amount money.Money
	Type   enum.PaymentType
	Status enum.PaymentStatus
}

// PaidAmount sums completed, non-credit records. The persisted snapshot is
// only consulted when the ledger has no records at all.
func PaidAmount(records []Payment, fallback money.Money) money.Money {
	if len(records) == 0 {
		return fallback
	}
	var paid money.Money
	for _, r := range records {
		if r.Status == enum.PaymentStatusCompleted && r.Type.CountsAsPaid() {
			paid += r.Amount
		}
	}
	return paid
}

// RemainingAmount is max(0, total − paid).
func RemainingAmount(total, paid money.Money) money.Money {
	return money.Max(money.Zero, total-paid)
}

// Ledger is a snapshot of an entity's total and payment history.
type Ledger struct {
	Total    money.Money
	Records  []Payment
	Fallback money.Money
}

// Paid returns the ledger-derived paid amount.
func (l Ledger) Paid() money.Money {
	return PaidAmount(l.Records, l.Fallback)
}

// Remaining returns the outstanding balance.
func (l Ledger) Remaining() money.Money {
	return RemainingAmount(l.Total, l.Paid())
}

// Suggest returns the pre-fill amount for a payment form.
func (l Ledger) Suggest(t enum.PaymentType) money.Money {
	return SuggestAmount(t, l.Total, l.Remaining())
}

// PaymentRequest is what a caller asks the ledger to record.
type PaymentRequest struct {
	Amount  money.Money
	Type    enum.PaymentType
	DueDate *time.Time
}

// Admit checks a payment against the current balance. Credit payments need a
// due date. Overpayment by a non-credit payment is rejected unless allowed.
func (l Ledger) Admit(req PaymentRequest, allowOverpayment bool) error {
	var errs []apperror.FieldError
	if req.Amount <= 0 {
		errs = append(errs, apperror.FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if !req.Type.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "payment_type", Message: "must be one of advance, partial, full, credit"})
	}
	if req.Type == enum.PaymentTypeCredit && req.DueDate == nil {
		errs = append(errs, apperror.FieldError{Field: "due_date", Message: "is required for credit payments"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}

	remaining := l.Remaining()
	if !allowOverpayment && req.Type.CountsAsPaid() && req.Amount > remaining {
		return apperror.NewOverpaymentError(req.Amount.String(), remaining.String())
	}
	return nil
}

var (
	advanceRatio = decimal.RequireFromString("0.30")
	partialRatio = decimal.RequireFromString("0.50")
)

// SuggestAmount implements the suggestion table: advance is 30% of the total,
// partial is half of what remains, full and credit settle the remainder.
// Fractional suggestions are rounded to whole major units and never exceed
// the remaining balance.
func SuggestAmount(t enum.PaymentType, total, remaining money.Money) money.Money {
	var s money.Money
	switch t {
	case enum.PaymentTypeAdvance:
		s = roundedShare(total, advanceRatio)
	case enum.PaymentTypePartial:
		s = roundedShare(remaining, partialRatio)
	default:
		return remaining
	}
	return money.Min(s, remaining)
}

func roundedShare(m money.Money, ratio decimal.Decimal) money.Money {
	return money.FromMajor(m.Decimal().Mul(ratio).Round(0).IntPart())
}
