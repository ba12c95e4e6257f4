package billing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

func pct(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func vat(rate string) ChargeRule {
	return ChargeRule{Name: "VAT", Rate: pct(rate), Active: true}
}

func oneLine(major int64) []Line {
	return []Line{{Description: "Deluxe room", Quantity: 1, UnitAmount: money.FromMajor(major)}}
}

func TestComputeCharges(t *testing.T) {
	tests := []struct {
		name         string
		lines        []Line
		rules        []ChargeRule
		discount     *DiscountSpec
		wantSubTotal money.Money
		wantTax      money.Money
		wantDiscount money.Money
		wantTotal    money.Money
	}{
		{
			name:         "tax is levied on the pre-discount subtotal",
			lines:        oneLine(1000),
			rules:        []ChargeRule{vat("13")},
			discount:     &DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("50")},
			wantSubTotal: money.FromMajor(1000),
			wantTax:      money.FromMajor(130),
			wantDiscount: money.FromMajor(500),
			wantTotal:    money.FromMajor(630),
		},
		{
			name:         "fixed discount clamps to subtotal plus tax",
			lines:        oneLine(100),
			discount:     &DiscountSpec{Type: enum.DiscountTypeFixed, Value: pct("500")},
			wantSubTotal: money.FromMajor(100),
			wantDiscount: money.FromMajor(100),
			wantTotal:    0,
		},
		{
			name:         "percentage discount is a share of the subtotal only",
			lines:        oneLine(1000),
			rules:        []ChargeRule{vat("13")},
			discount:     &DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("10")},
			wantSubTotal: money.FromMajor(1000),
			wantTax:      money.FromMajor(130),
			wantDiscount: money.FromMajor(100),
			wantTotal:    money.FromMajor(1030),
		},
		{
			name: "multiple lines and rules, inactive rule ignored",
			lines: []Line{
				{Description: "Momo", Quantity: 2, UnitAmount: money.FromCents(25050)},
				{Description: "Tea", Quantity: 3, UnitAmount: money.FromCents(4000)},
			},
			rules: []ChargeRule{
				{Name: "Service charge", Rate: pct("10"), Active: true},
				vat("13"),
				{Name: "Luxury tax", Rate: pct("5"), Active: false},
			},
			wantSubTotal: money.FromCents(62100),
			wantTax:      money.FromCents(6210 + 8073),
			wantTotal:    money.FromCents(62100 + 6210 + 8073),
		},
		{
			name:         "nil discount",
			lines:        oneLine(10),
			wantSubTotal: money.FromMajor(10),
			wantTotal:    money.FromMajor(10),
		},
		{
			name:         "none discount ignores value",
			lines:        oneLine(10),
			discount:     &DiscountSpec{Type: enum.DiscountTypeNone, Value: pct("99")},
			wantSubTotal: money.FromMajor(10),
			wantTotal:    money.FromMajor(10),
		},
		{
			name:         "zero quantity contributes nothing",
			lines:        []Line{{Description: "Extra bed", Quantity: 0, UnitAmount: money.FromMajor(20)}},
			rules:        []ChargeRule{vat("13")},
			wantSubTotal: 0,
			wantTotal:    0,
		},
		{
			name:         "empty bill",
			wantSubTotal: 0,
			wantTotal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeCharges(tt.lines, tt.rules, tt.discount)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubTotal, got.SubTotal)
			assert.Equal(t, tt.wantTax, got.TaxTotal)
			assert.Equal(t, tt.wantDiscount, got.DiscountAmount)
			assert.Equal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestComputeCharges_TaxBreakdown(t *testing.T) {
	rules := []ChargeRule{
		{Name: "Service charge", Rate: pct("10"), Active: true},
		{Name: "Off season", Rate: pct("3"), Active: false},
		vat("13"),
	}
	got, err := ComputeCharges(oneLine(1000), rules, nil)
	require.NoError(t, err)

	require.Len(t, got.Taxes, 2)
	assert.Equal(t, "Service charge", got.Taxes[0].Name)
	assert.Equal(t, money.FromMajor(100), got.Taxes[0].Amount)
	assert.Equal(t, "VAT", got.Taxes[1].Name)
	assert.Equal(t, money.FromMajor(130), got.Taxes[1].Amount)
}

func TestComputeCharges_RoundsHalfUpPerRule(t *testing.T) {
	// 0.05 at 10% = 0.005, rounded to 0.01
	got, err := ComputeCharges([]Line{{Quantity: 1, UnitAmount: 5}}, []ChargeRule{vat("10")}, nil)
	require.NoError(t, err)
	assert.Equal(t, money.Money(1), got.TaxTotal)
}

func TestComputeCharges_Idempotent(t *testing.T) {
	lines := []Line{
		{Quantity: 3, UnitAmount: money.FromCents(33333)},
		{Quantity: 7, UnitAmount: money.FromCents(1999)},
	}
	rules := []ChargeRule{vat("13"), {Name: "Service", Rate: pct("12.5"), Active: true}}
	discount := &DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("7.5")}

	first, err := ComputeCharges(lines, rules, discount)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := ComputeCharges(lines, rules, discount)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeCharges_NonNegative(t *testing.T) {
	rateSteps := []string{"0", "5", "13", "100"}
	discounts := []*DiscountSpec{
		nil,
		{Type: enum.DiscountTypePercentage, Value: pct("0")},
		{Type: enum.DiscountTypePercentage, Value: pct("150")},
		{Type: enum.DiscountTypeFixed, Value: pct("0.01")},
		{Type: enum.DiscountTypeFixed, Value: pct("100000")},
	}
	for _, unit := range []int64{0, 1, 99, 12345} {
		for _, rate := range rateSteps {
			for _, d := range discounts {
				got, err := ComputeCharges([]Line{{Quantity: 2, UnitAmount: money.FromCents(unit)}}, []ChargeRule{vat(rate)}, d)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, int64(got.Total), int64(0))
				assert.GreaterOrEqual(t, int64(got.DiscountAmount), int64(0))
				assert.LessOrEqual(t, int64(got.DiscountAmount), int64(got.SubTotal+got.TaxTotal))
			}
		}
	}
}

func TestComputeCharges_HugePercentageDiscountClamps(t *testing.T) {
	lines := []Line{{Quantity: 1, UnitAmount: money.MaxAmount / 2}}
	got, err := ComputeCharges(lines, []ChargeRule{vat("13")}, &DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("1e20")})
	require.NoError(t, err)
	assert.Equal(t, got.SubTotal+got.TaxTotal, got.DiscountAmount)
	assert.Equal(t, money.Zero, got.Total)
}

func TestComputeCharges_Validation(t *testing.T) {
	tests := []struct {
		name       string
		lines      []Line
		rules      []ChargeRule
		discount   *DiscountSpec
		wantFields []string
	}{
		{
			name:       "negative quantity",
			lines:      []Line{{Quantity: 1, UnitAmount: 100}, {Quantity: 1, UnitAmount: 100}, {Quantity: -1, UnitAmount: 100}},
			wantFields: []string{"lines[2].quantity"},
		},
		{
			name:       "negative unit amount",
			lines:      []Line{{Quantity: 1, UnitAmount: -100}},
			wantFields: []string{"lines[0].unit_amount"},
		},
		{
			name:       "negative discount value",
			lines:      oneLine(10),
			discount:   &DiscountSpec{Type: enum.DiscountTypeFixed, Value: pct("-1")},
			wantFields: []string{"discount.value"},
		},
		{
			name:       "unknown discount type",
			lines:      oneLine(10),
			discount:   &DiscountSpec{Type: enum.DiscountType(9), Value: pct("1")},
			wantFields: []string{"discount.type"},
		},
		{
			name:       "fixed discount with sub-cent precision",
			lines:      oneLine(10),
			discount:   &DiscountSpec{Type: enum.DiscountTypeFixed, Value: pct("1.001")},
			wantFields: []string{"discount.value"},
		},
		{
			name:       "negative tax rate",
			lines:      oneLine(10),
			rules:      []ChargeRule{vat("-13")},
			wantFields: []string{"rules[0].rate"},
		},
		{
			name:       "unit amount beyond the money range",
			lines:      []Line{{Quantity: 1, UnitAmount: money.FromCents(math.MaxInt64)}, {Quantity: 1, UnitAmount: 200}},
			wantFields: []string{"lines[0].unit_amount"},
		},
		{
			name:       "unit amount that would wrap when doubled",
			lines:      []Line{{Quantity: 2, UnitAmount: money.FromCents(1 << 62)}},
			wantFields: []string{"lines[0].unit_amount"},
		},
		{
			name:       "quantity times unit amount beyond the money range",
			lines:      []Line{{Quantity: 2_000_000, UnitAmount: money.MaxAmount / 1000}},
			wantFields: []string{"lines[0].quantity"},
		},
		{
			name:       "subtotal beyond the money range",
			lines:      []Line{{Quantity: 1, UnitAmount: money.MaxAmount}, {Quantity: 1, UnitAmount: 1}},
			wantFields: []string{"lines"},
		},
		{
			name:       "tax pushes the bill beyond the money range",
			lines:      []Line{{Quantity: 1, UnitAmount: money.MaxAmount}},
			rules:      []ChargeRule{vat("13")},
			wantFields: []string{"rules"},
		},
		{
			name:       "fixed discount beyond the money range",
			lines:      oneLine(10),
			discount:   &DiscountSpec{Type: enum.DiscountTypeFixed, Value: pct("10000000000000")},
			wantFields: []string{"discount.value"},
		},
		{
			name:       "all problems reported together",
			lines:      []Line{{Quantity: -2, UnitAmount: -1}},
			discount:   &DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("-5")},
			wantFields: []string{"lines[0].quantity", "lines[0].unit_amount", "discount.value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeCharges(tt.lines, tt.rules, tt.discount)
			require.Error(t, err)
			require.True(t, apperror.IsKind(err, apperror.KindValidation))

			var fields []string
			for _, fe := range apperror.GetAppError(err).Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestComputeCharges_RoundTrip(t *testing.T) {
	lines := []Line{{Quantity: 3, UnitAmount: money.FromCents(123456)}}
	rules := []ChargeRule{vat("13"), {Name: "Service", Rate: pct("10"), Active: true}}
	discount := &DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("12.5")}

	preview, err := ComputeCharges(lines, rules, discount)
	require.NoError(t, err)

	// Reload the persisted amounts as strings and recompute.
	stored := make([]Line, len(lines))
	for i, l := range lines {
		unit, err := money.Parse(l.UnitAmount.String())
		require.NoError(t, err)
		stored[i] = Line{Quantity: l.Quantity, UnitAmount: unit}
	}
	storedDiscount := &DiscountSpec{Type: discount.Type, Value: decimal.RequireFromString(discount.Value.String())}

	again, err := ComputeCharges(stored, rules, storedDiscount)
	require.NoError(t, err)
	assert.Equal(t, preview.Total, again.Total)
}
