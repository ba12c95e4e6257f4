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

// Reservation is a room booking billed per room-night.
type Reservation struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	BranchID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"branch_id"`
	ReservationNo string                 `gorm:"size:50;uniqueIndex;not null" json:"reservation_no"`
	GuestName     string                 `gorm:"size:255;not null" json:"guest_name"`
	GuestPhone    string                 `gorm:"size:50" json:"guest_phone,omitempty"`
	GuestEmail    string                 `gorm:"size:255" json:"guest_email,omitempty"`
	CheckIn       time.Time              `gorm:"not null" json:"check_in"`
	CheckOut      time.Time              `gorm:"not null" json:"check_out"`
	Status        enum.ReservationStatus `gorm:"not null;default:0" json:"status"`
	Notes         string                 `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     *uuid.UUID             `gorm:"type:uuid" json:"created_by,omitempty"`
	BillingSnapshot
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []ReservationLine `gorm:"foreignKey:ReservationID" json:"lines,omitempty"`
}

// MarshalJSON adds the derived balance fields.
func (r Reservation) MarshalJSON() ([]byte, error) {
	type Alias Reservation
	return json.Marshal(&struct {
		Alias
		RemainingAmount money.Money `json:"remaining_amount"`
		PaymentState    string      `json:"payment_state"`
	}{
		Alias:           Alias(r),
		RemainingAmount: r.RemainingAmount(),
		PaymentState:    r.PaymentState(),
	})
}

// BeforeCreate generates a UUID before creating a new reservation
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// Nights is the length of stay, at least one.
func (r *Reservation) Nights() int {
	n := int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// BillingLines converts stored lines for the calculator.
func (r *Reservation) BillingLines() []billing.Line {
	out := make([]billing.Line, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = l.BillingLine()
	}
	return out
}

// ReservationLine is one room (or extra) charged for a number of nights.
type ReservationLine struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ReservationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"reservation_id"`
	Position      int         `gorm:"not null" json:"position"`
	RoomNumber    string      `gorm:"size:20" json:"room_number,omitempty"`
	Description   string      `gorm:"size:255;not null" json:"description"`
	Quantity      int         `gorm:"not null" json:"quantity"`
	UnitAmount    money.Money `gorm:"not null" json:"unit_amount"`
	LineTotal     money.Money `gorm:"not null" json:"line_total"`
	CreatedAt     time.Time   `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new reservation line
func (l *ReservationLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReservationLine model
func (ReservationLine) TableName() string {
	return "reservation_lines"
}

func (l ReservationLine) BillingLine() billing.Line {
	return billing.Line{Description: l.Description, Quantity: l.Quantity, UnitAmount: l.UnitAmount}
}
