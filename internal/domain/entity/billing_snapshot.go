package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// BillingSnapshot is the persisted result of the last charge computation plus
// the paid amount derived from the ledger. Only the billing services write it.
type BillingSnapshot struct {
	SubTotal       money.Money       `gorm:"not null;default:0" json:"sub_total"`
	TaxAmount      money.Money       `gorm:"not null;default:0" json:"tax_amount"`
	TaxBreakdown   TaxBreakdown      `gorm:"type:text" json:"tax_breakdown"`
	DiscountType   enum.DiscountType `gorm:"not null;default:0" json:"discount_type"`
	DiscountValue  decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0" json:"discount_value"`
	DiscountReason string            `gorm:"size:255" json:"discount_reason,omitempty"`
	DiscountAmount money.Money       `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    money.Money       `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount     money.Money       `gorm:"not null;default:0" json:"paid_amount"`
}

// Discount returns the persisted discount as a spec for the calculator.
func (s BillingSnapshot) Discount() billing.DiscountSpec {
	return billing.DiscountSpec{Type: s.DiscountType, Value: s.DiscountValue, Reason: s.DiscountReason}
}

// Apply stores a freshly computed breakdown and the discount that produced it.
func (s *BillingSnapshot) Apply(b billing.Breakdown, d billing.DiscountSpec) {
	s.SubTotal = b.SubTotal
	s.TaxAmount = b.TaxTotal
	s.TaxBreakdown = b.Taxes
	s.DiscountType = d.Type
	s.DiscountValue = d.Value
	s.DiscountReason = d.Reason
	s.DiscountAmount = b.DiscountAmount
	s.TotalAmount = b.Total
}

// RemainingAmount is max(0, total − paid).
func (s BillingSnapshot) RemainingAmount() money.Money {
	return billing.RemainingAmount(s.TotalAmount, s.PaidAmount)
}

// PaymentState summarizes the balance for list views.
func (s BillingSnapshot) PaymentState() string {
	switch {
	case s.RemainingAmount() == 0:
		return "settled"
	case s.PaidAmount == 0:
		return "unpaid"
	default:
		return "partial"
	}
}

// ChargeColumns maps the calculator-owned columns for a single UPDATE.
// paid_amount is left out: only the ledger writes it.
func (s BillingSnapshot) ChargeColumns() map[string]interface{} {
	return map[string]interface{}{
		"sub_total":       s.SubTotal,
		"tax_amount":      s.TaxAmount,
		"tax_breakdown":   s.TaxBreakdown,
		"discount_type":   s.DiscountType,
		"discount_value":  s.DiscountValue,
		"discount_reason": s.DiscountReason,
		"discount_amount": s.DiscountAmount,
		"total_amount":    s.TotalAmount,
	}
}

// TaxBreakdown is the per-rule tax of the last computation, stored as JSON text
// so bills can be reprinted without recomputing.
type TaxBreakdown []billing.TaxLine

func (t TaxBreakdown) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]billing.TaxLine(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TaxBreakdown) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan TaxBreakdown: unsupported type %T", value)
	}
	var lines []billing.TaxLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return err
	}
	*t = lines
	return nil
}
