package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/money"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

func TestReservationService_Create(t *testing.T) {
	f := newFixture(t)
	res := f.createStay(t)

	assert.Equal(t, enum.ReservationStatusBooked, res.Status)
	assert.Contains(t, res.ReservationNo, "RES-")
	assert.Equal(t, money.FromMajor(10000), res.SubTotal)
	assert.Equal(t, money.FromMajor(1300), res.TaxAmount)
	assert.Equal(t, money.FromMajor(11300), res.TotalAmount)
	require.Len(t, res.TaxBreakdown, 1)
	assert.Equal(t, "VAT", res.TaxBreakdown[0].Name)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, money.FromMajor(10000), res.Lines[0].LineTotal)
}

func TestReservationService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	_, err := f.reservations.CreateReservation(f.ctx, &CreateReservationInput{
		GuestName: "Amina Noor",
		CheckIn:   at,
		CheckOut:  at,
		Lines:     []ReservationLineInput{{Description: "Room", Quantity: 1, UnitAmount: money.FromMajor(10)}},
	})
	require.Error(t, err)
	assert.Equal(t, "check_out", apperror.GetAppError(err).Errors[0].Field)

	_, err = f.reservations.CreateReservation(f.ctx, &CreateReservationInput{
		GuestName: "Amina Noor",
		CheckIn:   at,
		CheckOut:  at.AddDate(0, 0, 1),
		Lines:     []ReservationLineInput{{Description: "Room", Quantity: -1, UnitAmount: money.FromMajor(10)}},
	})
	require.Error(t, err)
	assert.Equal(t, "lines[0].quantity", apperror.GetAppError(err).Errors[0].Field)
}

func TestReservationService_ReplaceLinesKeepsDiscount(t *testing.T) {
	f := newFixture(t)
	res := f.createStay(t)

	_, err := f.discounts.ApplyDiscount(f.ctx, enum.BillableReservation, res.ID, billing.DiscountSpec{
		Type:  enum.DiscountTypePercentage,
		Value: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	updated, err := f.reservations.ReplaceLines(f.ctx, res.ID, []ReservationLineInput{
		{RoomNumber: "204", Description: "Deluxe room", Quantity: 3, UnitAmount: money.FromMajor(5000)},
		{Description: "Airport transfer", Quantity: 1, UnitAmount: money.FromMajor(2000)},
	})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 2)
	// 17,000 + 2,210 VAT - 1,700 discount
	assert.Equal(t, money.FromMajor(17000), updated.SubTotal)
	assert.Equal(t, money.FromMajor(1700), updated.DiscountAmount)
	assert.Equal(t, money.FromMajor(17510), updated.TotalAmount)
	assert.Equal(t, enum.DiscountTypePercentage, updated.DiscountType)
}

func TestReservationService_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	res := f.createStay(t)

	_, err := f.reservations.UpdateStatus(f.ctx, res.ID, enum.ReservationStatusCheckedOut)
	require.Error(t, err)

	updated, err := f.reservations.UpdateStatus(f.ctx, res.ID, enum.ReservationStatusCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, enum.ReservationStatusCheckedIn, updated.Status)

	_, err = f.reservations.UpdateStatus(f.ctx, res.ID, enum.ReservationStatusSettled)
	require.Error(t, err, "cannot settle with a balance")

	other := f.createStay(t)
	_, err = f.ledger.RecordPayment(f.ctx, enum.BillableReservation, other.ID, &RecordPaymentInput{
		Amount:      money.FromMajor(1000),
		PaymentType: enum.PaymentTypeAdvance,
	})
	require.NoError(t, err)
	_, err = f.reservations.UpdateStatus(f.ctx, other.ID, enum.ReservationStatusCancelled)
	require.Error(t, err, "cannot cancel after payment")
}

func TestReservationService_CancelledRejectsEdits(t *testing.T) {
	f := newFixture(t)
	res := f.createStay(t)

	_, err := f.reservations.UpdateStatus(f.ctx, res.ID, enum.ReservationStatusCancelled)
	require.NoError(t, err)

	_, err = f.reservations.ReplaceLines(f.ctx, res.ID, []ReservationLineInput{{Description: "Room", Quantity: 1, UnitAmount: money.FromMajor(1)}})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	_, err = f.discounts.ApplyDiscount(f.ctx, enum.BillableReservation, res.ID, billing.DiscountSpec{Type: enum.DiscountTypeFixed, Value: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestReservationService_List(t *testing.T) {
	f := newFixture(t)
	f.createStay(t)
	paid := f.createStay(t)
	_, err := f.ledger.RecordPayment(f.ctx, enum.BillableReservation, paid.ID, &RecordPaymentInput{
		Amount:      paid.TotalAmount,
		PaymentType: enum.PaymentTypeFull,
	})
	require.NoError(t, err)

	all, err := f.reservations.ListReservations(f.ctx, &repository.ReservationFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	open, err := f.reservations.ListReservations(f.ctx, &repository.ReservationFilterParams{Pagination: pagination.DefaultPagination(), Unsettled: true})
	require.NoError(t, err)
	require.Len(t, open.Items, 1)
	assert.NotEqual(t, paid.ID, open.Items[0].ID)
}

func TestOrderService_Create(t *testing.T) {
	f := newFixture(t)

	order, err := f.orders.CreateOrder(f.ctx, &CreateOrderInput{
		TableNo: "T4",
		Covers:  2,
		Lines: []OrderLineInput{
			{Description: "Grilled tilapia", Station: enum.StationKitchen, Quantity: 2, UnitAmount: money.FromMajor(1500)},
			{Description: "Passion juice", Station: enum.StationBar, Quantity: 1, UnitAmount: money.FromMajor(800), Notes: "no ice"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusOpen, order.Status)
	assert.Equal(t, money.FromMajor(3800), order.SubTotal)
	require.Len(t, order.TaxBreakdown, 2)
	assert.Equal(t, money.FromMajor(380), order.TaxBreakdown[0].Amount)
	assert.Equal(t, money.FromMajor(494), order.TaxBreakdown[1].Amount)
	assert.Equal(t, money.FromMajor(4674), order.TotalAmount)
	assert.Equal(t, "no ice", order.Lines[1].Notes)
}

func TestOrderService_RoomServiceNeedsReservation(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, err := f.orders.CreateOrder(f.ctx, &CreateOrderInput{
		ReservationID: &missing,
		Lines:         []OrderLineInput{{Description: "Club sandwich", Quantity: 1, UnitAmount: money.FromMajor(900)}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	res := f.createStay(t)
	order, err := f.orders.CreateOrder(f.ctx, &CreateOrderInput{
		ReservationID: &res.ID,
		Lines:         []OrderLineInput{{Description: "Club sandwich", Quantity: 1, UnitAmount: money.FromMajor(900)}},
	})
	require.NoError(t, err)
	assert.Equal(t, res.GuestName, order.GuestName)
	assert.Equal(t, 1, order.Covers)
}

func TestOrderService_StatusAndLines(t *testing.T) {
	f := newFixture(t)
	order, err := f.orders.CreateOrder(f.ctx, &CreateOrderInput{
		TableNo: "T1",
		Lines:   []OrderLineInput{{Description: "Soup", Quantity: 1, UnitAmount: money.FromMajor(500)}},
	})
	require.NoError(t, err)

	_, err = f.orders.ReplaceLines(f.ctx, order.ID, []OrderLineInput{{Description: "Soup", Station: enum.Station(7), Quantity: 1, UnitAmount: money.FromMajor(500)}})
	require.Error(t, err)
	assert.Equal(t, "lines[0].station", apperror.GetAppError(err).Errors[0].Field)

	updated, err := f.orders.ReplaceLines(f.ctx, order.ID, []OrderLineInput{{Description: "Soup", Quantity: 2, UnitAmount: money.FromMajor(500)}})
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(1000), updated.SubTotal)

	served, err := f.orders.UpdateStatus(f.ctx, order.ID, enum.OrderStatusServed)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusServed, served.Status)

	_, err = f.orders.UpdateStatus(f.ctx, order.ID, enum.OrderStatusOpen)
	require.Error(t, err)
}

func TestDiscountService_PreviewDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	res := f.createStay(t)

	preview, err := f.discounts.PreviewDiscount(f.ctx, enum.BillableReservation, res.ID, billing.DiscountSpec{
		Type:  enum.DiscountTypeFixed,
		Value: decimal.NewFromInt(20000),
	})
	require.NoError(t, err)
	// clamped to subtotal + tax
	assert.Equal(t, money.FromMajor(11300), preview.Breakdown.DiscountAmount)
	assert.Equal(t, money.Zero, preview.Breakdown.Total)
	assert.Equal(t, enum.DiscountTypeNone, preview.Persisted.Type)

	stored, err := f.reservations.GetReservation(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(11300), stored.TotalAmount)
	assert.Equal(t, money.Zero, stored.DiscountAmount)
}

func TestDiscountService_Apply(t *testing.T) {
	f := newFixture(t)
	res := f.createStay(t)

	out, err := f.discounts.ApplyDiscount(f.ctx, enum.BillableReservation, res.ID, billing.DiscountSpec{
		Type:   enum.DiscountTypePercentage,
		Value:  decimal.NewFromInt(10),
		Reason: "Loyalty",
	})
	require.NoError(t, err)
	// tax stays on the pre-discount subtotal
	assert.Equal(t, money.FromMajor(1300), out.Snapshot.TaxAmount)
	assert.Equal(t, money.FromMajor(1000), out.Snapshot.DiscountAmount)
	assert.Equal(t, money.FromMajor(10300), out.Snapshot.TotalAmount)
	assert.Equal(t, "Loyalty", out.Discount.Reason)

	stored, err := f.reservations.GetReservation(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(10300), stored.TotalAmount)
	assert.Equal(t, "Loyalty", stored.DiscountReason)

	_, err = f.discounts.ApplyDiscount(f.ctx, enum.BillableReservation, res.ID, billing.DiscountSpec{
		Type:  enum.DiscountTypeFixed,
		Value: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.Equal(t, "discount.value", apperror.GetAppError(err).Errors[0].Field)
}

func TestDiscountService_SettlesWhenDiscountCoversBalance(t *testing.T) {
	f := newFixture(t)
	res := f.createStay(t)

	_, err := f.ledger.RecordPayment(f.ctx, enum.BillableReservation, res.ID, &RecordPaymentInput{
		Amount:      money.FromMajor(3390),
		PaymentType: enum.PaymentTypeAdvance,
	})
	require.NoError(t, err)

	out, err := f.discounts.ApplyDiscount(f.ctx, enum.BillableReservation, res.ID, billing.DiscountSpec{
		Type:  enum.DiscountTypeFixed,
		Value: decimal.NewFromInt(7910),
	})
	require.NoError(t, err)
	assert.Equal(t, money.Zero, out.Remaining)
	assert.Equal(t, money.FromMajor(3390), out.Snapshot.PaidAmount)

	stored, err := f.reservations.GetReservation(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ReservationStatusSettled, stored.Status)
}

func TestChargeService_Rules(t *testing.T) {
	f := newFixture(t)

	_, err := f.charges.CreateRule(f.ctx, &ChargeRuleInput{Name: " ", Rate: decimal.NewFromInt(-1), AppliesTo: enum.BillableKind(5)})
	require.Error(t, err)
	assert.Len(t, apperror.GetAppError(err).Errors, 3)

	rule, err := f.charges.CreateRule(f.ctx, &ChargeRuleInput{
		Name:      "Tourism levy",
		Rate:      decimal.RequireFromString("2.5"),
		Active:    true,
		AppliesTo: enum.BillableReservation,
		SortOrder: 2,
	})
	require.NoError(t, err)

	// existing bills keep their totals; new ones pick up the rule
	res := f.createStay(t)
	assert.Equal(t, money.FromMajor(11550), res.TotalAmount)

	_, err = f.charges.UpdateRule(f.ctx, rule.ID, &ChargeRuleInput{Name: rule.Name, Rate: rule.Rate, Active: false, AppliesTo: rule.AppliesTo})
	require.NoError(t, err)
	active, err := f.charges.ActiveRules(f.ctx, enum.BillableReservation)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, f.charges.DeleteRule(f.ctx, rule.ID))
	_, err = f.charges.GetRule(f.ctx, rule.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestChargeService_PreviewWithRuleOverride(t *testing.T) {
	f := newFixture(t)

	b, err := f.charges.Preview(f.ctx, &PreviewInput{
		Kind:  enum.BillableOrder,
		Lines: []billing.Line{{Description: "Tea", Quantity: 3, UnitAmount: money.FromMajor(150)}},
		Rules: []billing.ChargeRule{{Name: "VAT", Rate: decimal.NewFromInt(16), Active: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(450), b.SubTotal)
	assert.Equal(t, money.FromMajor(72), b.TaxTotal)
	assert.Equal(t, money.FromMajor(522), b.Total)

	b, err = f.charges.Preview(f.ctx, &PreviewInput{
		Kind:  enum.BillableOrder,
		Lines: []billing.Line{{Description: "Tea", Quantity: 3, UnitAmount: money.FromMajor(150)}},
	})
	require.NoError(t, err)
	assert.Len(t, b.Taxes, 2)
}
