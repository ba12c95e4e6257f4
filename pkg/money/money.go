package money

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents). Two decimal places are implied.
type Money int64

const minorPerMajor = 100

var hundred = decimal.NewFromInt(100)

// Zero is the zero amount.
const Zero Money = 0

// MaxAmount is the largest magnitude accepted from callers (one trillion major
// units). Sums of up to a few thousand such amounts still fit in an int64.
const MaxAmount Money = 100_000_000_000_000

var (
	ErrPrecision  = errors.New("more than two decimal places")
	ErrOutOfRange = errors.New("amount out of range")
)

// FromCents wraps a minor-unit integer.
func FromCents(cents int64) Money {
	return Money(cents)
}

// FromMajor converts a whole major-unit amount (e.g. 1000 for 1000.00).
func FromMajor(units int64) Money {
	return Money(units * minorPerMajor)
}

// FromDecimal converts a decimal major-unit amount. Values with more than
// two fractional digits or beyond ±MaxAmount are rejected rather than
// rounded or wrapped.
func FromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("money: %s: %w", d.String(), ErrPrecision)
	}
	if !cents.BigInt().IsInt64() || cents.Abs().GreaterThan(MaxAmount.centsDecimal()) {
		return 0, fmt.Errorf("money: %s: %w", d.String(), ErrOutOfRange)
	}
	return Money(cents.IntPart()), nil
}

// Parse reads a decimal string such as "12.50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// Cents returns the raw minor-unit value.
func (m Money) Cents() int64 {
	return int64(m)
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) centsDecimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m < 0
}

// PercentCents returns round_half_up(m × rate / 100) in minor units without
// converting back to Money, so callers can range-check it first.
func (m Money) PercentCents(rate decimal.Decimal) decimal.Decimal {
	return m.centsDecimal().Mul(rate).Div(hundred).Round(0)
}

// Percent returns round_half_up(m × rate / 100). rate is a numeric percent (13 for 13%).
// The result must fit in Money; check with PercentCents when rate is untrusted.
func (m Money) Percent(rate decimal.Decimal) Money {
	return Money(m.PercentCents(rate).IntPart())
}

// Max returns the larger of a and b.
func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	data = bytes.Trim(data, `"`)
	v, err := Parse(string(data))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
