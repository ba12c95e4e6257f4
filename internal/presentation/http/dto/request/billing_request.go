package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// Enum-valued fields are plain strings here. Handlers parse them so an
// unknown value comes back as a field error rather than a decode failure.

// DiscountRequest is a discount as entered on a bill
type DiscountRequest struct {
	Type   string          `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Reason string          `json:"reason"`
}

// ReservationLineRequest is one room line
type ReservationLineRequest struct {
	RoomNumber  string      `json:"room_number" binding:"max=20"`
	Description string      `json:"description" binding:"required,max=255"`
	Quantity    int         `json:"quantity"`
	UnitAmount  money.Money `json:"unit_amount"`
}

// CreateReservationRequest represents a reservation creation request
type CreateReservationRequest struct {
	GuestName  string                   `json:"guest_name" binding:"required,max=255"`
	GuestPhone string                   `json:"guest_phone" binding:"max=50"`
	GuestEmail string                   `json:"guest_email" binding:"omitempty,email"`
	CheckIn    time.Time                `json:"check_in" binding:"required"`
	CheckOut   time.Time                `json:"check_out" binding:"required"`
	Notes      string                   `json:"notes"`
	Lines      []ReservationLineRequest `json:"lines" binding:"required,dive"`
	Discount   *DiscountRequest         `json:"discount"`
}

// ReplaceReservationLinesRequest replaces every line of a reservation
type ReplaceReservationLinesRequest struct {
	Lines []ReservationLineRequest `json:"lines" binding:"required,dive"`
}

// OrderLineRequest is one dish or drink
type OrderLineRequest struct {
	Description string      `json:"description" binding:"required,max=255"`
	Station     string      `json:"station"`
	Quantity    int         `json:"quantity"`
	UnitAmount  money.Money `json:"unit_amount"`
	Notes       string      `json:"notes" binding:"max=255"`
}

// CreateOrderRequest represents a restaurant order creation request
type CreateOrderRequest struct {
	TableNo       string             `json:"table_no" binding:"max=20"`
	ReservationID *uuid.UUID         `json:"reservation_id"`
	GuestName     string             `json:"guest_name" binding:"max=255"`
	Covers        int                `json:"covers" binding:"min=0"`
	Notes         string             `json:"notes"`
	Lines         []OrderLineRequest `json:"lines" binding:"required,dive"`
	Discount      *DiscountRequest   `json:"discount"`
}

// ReplaceOrderLinesRequest replaces every line of an order
type ReplaceOrderLinesRequest struct {
	Lines []OrderLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateStatusRequest moves a reservation or order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RecordPaymentRequest represents a payment against a reservation or order
type RecordPaymentRequest struct {
	Amount               money.Money  `json:"amount"`
	PaymentType          string       `json:"payment_type" binding:"required"`
	PaymentMethod        string       `json:"payment_method" binding:"max=50"`
	TransactionReference string       `json:"transaction_reference" binding:"max=100"`
	DueDate              *time.Time   `json:"due_date"`
	Notes                string       `json:"notes"`
	ExpectedRemaining    *money.Money `json:"expected_remaining"`
}

// ChargeLineRequest is a line for the stateless charge preview
type ChargeLineRequest struct {
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	UnitAmount  money.Money `json:"unit_amount"`
}

// ChargeRuleRateRequest overrides the stored rules in a preview
type ChargeRuleRateRequest struct {
	Name string          `json:"name" binding:"required"`
	Rate decimal.Decimal `json:"rate"`
}

// ChargePreviewRequest asks for a breakdown without saving anything.
// Rules, when present, replace the branch's active rules.
type ChargePreviewRequest struct {
	AppliesTo string                  `json:"applies_to" binding:"required"`
	Lines     []ChargeLineRequest     `json:"lines"`
	Rules     []ChargeRuleRateRequest `json:"rules" binding:"omitempty,dive"`
	Discount  *DiscountRequest        `json:"discount"`
}

// ChargeRuleRequest creates or updates a tax or service charge rule
type ChargeRuleRequest struct {
	Name      string          `json:"name" binding:"required,max=100"`
	Rate      decimal.Decimal `json:"rate"`
	Active    *bool           `json:"active"`
	AppliesTo string          `json:"applies_to" binding:"required"`
	SortOrder int             `json:"sort_order"`
}
