// Package billing holds the charge arithmetic shared by reservations and
// restaurant orders: subtotal, tax, discount, total and the payment ledger.
// Everything here is pure; persistence and locking live in the service layer.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// Line is one chargeable item: a room-night or an ordered dish.
type Line struct {
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	UnitAmount  money.Money `json:"unit_amount"`
}

// Amount is quantity × unit amount. ComputeCharges checks that it fits before
// any line is summed.
func (l Line) Amount() money.Money {
	return money.Money(int64(l.Quantity) * l.UnitAmount.Cents())
}

// ChargeRule is a percentage tax or service charge applied to the subtotal.
type ChargeRule struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Active bool            `json:"active"`
}

// DiscountSpec is a reduction applied once to subtotal + tax. For percentage
// discounts Value is a percent; for fixed discounts it is an amount in major units.
type DiscountSpec struct {
	Type   enum.DiscountType `json:"type"`
	Value  decimal.Decimal   `json:"value"`
	Reason string            `json:"reason,omitempty"`
}

// NoDiscount is the zero discount.
var NoDiscount = DiscountSpec{Type: enum.DiscountTypeNone}

// IsZero reports whether the spec applies no reduction.
func (d DiscountSpec) IsZero() bool {
	return d.Type == enum.DiscountTypeNone || d.Value.IsZero()
}

// TaxLine is the amount contributed by one active charge rule.
type TaxLine struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount money.Money     `json:"amount"`
}

// Breakdown is the result of ComputeCharges.
type Breakdown struct {
	SubTotal       money.Money `json:"sub_total"`
	Taxes          []TaxLine   `json:"tax_breakdown"`
	TaxTotal       money.Money `json:"tax_amount"`
	DiscountAmount money.Money `json:"discount_amount"`
	Total          money.Money `json:"total_amount"`
}
