package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// RestaurantOrder is a table or room-service bill.
type RestaurantOrder struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BranchID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"branch_id"`
	OrderNo       string           `gorm:"size:50;uniqueIndex;not null" json:"order_no"`
	TableNo       string           `gorm:"size:20" json:"table_no,omitempty"`
	ReservationID *uuid.UUID       `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	GuestName     string           `gorm:"size:255" json:"guest_name,omitempty"`
	Covers        int              `gorm:"not null;default:1" json:"covers"`
	Status        enum.OrderStatus `gorm:"not null;default:0" json:"status"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     *uuid.UUID       `gorm:"type:uuid" json:"created_by,omitempty"`
	BillingSnapshot
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// MarshalJSON adds the derived balance fields.
func (o RestaurantOrder) MarshalJSON() ([]byte, error) {
	type Alias RestaurantOrder
	return json.Marshal(&struct {
		Alias
		RemainingAmount money.Money `json:"remaining_amount"`
		PaymentState    string      `json:"payment_state"`
	}{
		Alias:           Alias(o),
		RemainingAmount: o.RemainingAmount(),
		PaymentState:    o.PaymentState(),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *RestaurantOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RestaurantOrder model
func (RestaurantOrder) TableName() string {
	return "restaurant_orders"
}

// BillingLines converts stored lines for the calculator.
func (o *RestaurantOrder) BillingLines() []billing.Line {
	out := make([]billing.Line, len(o.Lines))
	for i, l := range o.Lines {
		out[i] = l.BillingLine()
	}
	return out
}

// LinesByStation groups lines for KOT/BOT printing, keeping line order.
func (o *RestaurantOrder) LinesByStation() map[enum.Station][]OrderLine {
	out := make(map[enum.Station][]OrderLine)
	for _, l := range o.Lines {
		out[l.Station] = append(out[l.Station], l)
	}
	return out
}

// OrderLine is one dish or drink on an order.
type OrderLine struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"order_id"`
	Position    int          `gorm:"not null" json:"position"`
	Description string       `gorm:"size:255;not null" json:"description"`
	Station     enum.Station `gorm:"not null;default:0" json:"station"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	UnitAmount  money.Money  `gorm:"not null" json:"unit_amount"`
	LineTotal   money.Money  `gorm:"not null" json:"line_total"`
	Notes       string       `gorm:"size:255" json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new order line
func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}

func (l OrderLine) BillingLine() billing.Line {
	return billing.Line{Description: l.Description, Quantity: l.Quantity, UnitAmount: l.UnitAmount}
}
