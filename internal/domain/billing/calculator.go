package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// ComputeCharges derives the full charge breakdown for a set of lines.
//
// Tax is always levied on the pre-discount subtotal. The discount is clamped to
// subtotal + tax and the total never goes below zero. Inputs are validated up
// front and every offending field is reported in one ValidationError,
// including amounts that would leave the ±money.MaxAmount range.
func ComputeCharges(lines []Line, rules []ChargeRule, discount *DiscountSpec) (Breakdown, error) {
	if errs := validate(lines, rules, discount); len(errs) > 0 {
		return Breakdown{}, apperror.NewValidationError(errs)
	}

	var b Breakdown
	for _, l := range lines {
		b.SubTotal += l.Amount()
	}

	b.Taxes = make([]TaxLine, 0, len(rules))
	for _, r := range rules {
		if !r.Active {
			continue
		}
		amount := b.SubTotal.Percent(r.Rate)
		b.Taxes = append(b.Taxes, TaxLine{Name: r.Name, Rate: r.Rate, Amount: amount})
		b.TaxTotal += amount
	}

	b.DiscountAmount = discountAmount(b.SubTotal, b.SubTotal+b.TaxTotal, discount)
	b.Total = money.Max(money.Zero, b.SubTotal+b.TaxTotal-b.DiscountAmount)
	return b, nil
}

// discountAmount is the reduction for d, never more than limit.
func discountAmount(subtotal, limit money.Money, d *DiscountSpec) money.Money {
	if d == nil {
		return 0
	}
	switch d.Type {
	case enum.DiscountTypePercentage:
		cents := subtotal.PercentCents(d.Value)
		if cents.GreaterThan(decimal.NewFromInt(limit.Cents())) {
			return limit
		}
		return money.FromCents(cents.IntPart())
	case enum.DiscountTypeFixed:
		// validated to two decimal places and range
		m, _ := money.FromDecimal(d.Value)
		return money.Min(m, limit)
	}
	return 0
}

func validate(lines []Line, rules []ChargeRule, d *DiscountSpec) []apperror.FieldError {
	var errs []apperror.FieldError
	add := func(field, msg string) {
		errs = append(errs, apperror.FieldError{Field: field, Message: msg})
	}

	limit := decimal.NewFromInt(money.MaxAmount.Cents())
	tooLarge := "must not exceed " + money.MaxAmount.String()

	subtotal := decimal.Zero
	linesOK := true
	for i, l := range lines {
		ok := true
		if l.Quantity < 0 {
			add(fmt.Sprintf("lines[%d].quantity", i), "must not be negative")
			ok = false
		}
		if l.UnitAmount.IsNegative() {
			add(fmt.Sprintf("lines[%d].unit_amount", i), "must not be negative")
			ok = false
		} else if l.UnitAmount > money.MaxAmount {
			add(fmt.Sprintf("lines[%d].unit_amount", i), tooLarge)
			ok = false
		}
		if !ok {
			linesOK = false
			continue
		}
		amount := decimal.NewFromInt(int64(l.Quantity)).Mul(decimal.NewFromInt(l.UnitAmount.Cents()))
		if amount.GreaterThan(limit) {
			add(fmt.Sprintf("lines[%d].quantity", i), "quantity × unit_amount "+tooLarge)
			linesOK = false
			continue
		}
		subtotal = subtotal.Add(amount)
	}
	if linesOK && subtotal.GreaterThan(limit) {
		add("lines", "subtotal "+tooLarge)
		linesOK = false
	}

	rulesOK := true
	for i, r := range rules {
		if r.Active && r.Rate.IsNegative() {
			add(fmt.Sprintf("rules[%d].rate", i), "must not be negative")
			rulesOK = false
		}
	}
	if linesOK && rulesOK {
		base := money.FromCents(subtotal.IntPart())
		withTax := subtotal
		for _, r := range rules {
			if r.Active {
				withTax = withTax.Add(base.PercentCents(r.Rate))
			}
		}
		if withTax.GreaterThan(limit) {
			add("rules", "subtotal plus charges "+tooLarge)
		}
	}

	if d != nil {
		if !d.Type.IsValid() {
			add("discount.type", "must be one of none, percentage, fixed")
		}
		if d.Value.IsNegative() {
			add("discount.value", "must not be negative")
		} else if d.Type == enum.DiscountTypeFixed {
			_, err := money.FromDecimal(d.Value)
			switch {
			case errors.Is(err, money.ErrOutOfRange):
				add("discount.value", tooLarge)
			case err != nil:
				add("discount.value", "must have at most two decimal places")
			}
		}
	}
	return errs
}
