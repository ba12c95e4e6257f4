package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// Payment is an append-only ledger record against a reservation or order.
// Completed records are never updated.
type Payment struct {
	ID                   uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BranchID             uuid.UUID          `gorm:"type:uuid;not null;index" json:"branch_id"`
	BillableType         enum.BillableKind  `gorm:"not null;index:idx_payments_billable" json:"billable_type"`
	BillableID           uuid.UUID          `gorm:"type:uuid;not null;index:idx_payments_billable" json:"billable_id"`
	ReceiptNo            string             `gorm:"size:50;uniqueIndex;not null" json:"receipt_no"`
	Amount               money.Money        `gorm:"not null" json:"amount"`
	PaymentType          enum.PaymentType   `gorm:"not null" json:"payment_type"`
	PaymentMethod        string             `gorm:"size:50;not null" json:"payment_method"`
	Status               enum.PaymentStatus `gorm:"not null;default:0" json:"status"`
	TransactionReference string             `gorm:"size:255" json:"transaction_reference,omitempty"`
	DueDate              *time.Time         `json:"due_date,omitempty"`
	Notes                string             `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy           *uuid.UUID         `gorm:"type:uuid" json:"recorded_by,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// Entry is the ledger's view of the record.
func (p Payment) Entry() billing.Payment {
	return billing.Payment{Amount: p.Amount, Type: p.PaymentType, Status: p.Status}
}

// LedgerEntries converts records for the ledger.
func LedgerEntries(payments []Payment) []billing.Payment {
	out := make([]billing.Payment, len(payments))
	for i, p := range payments {
		out[i] = p.Entry()
	}
	return out
}
