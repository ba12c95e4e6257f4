package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch is one hotel or restaurant outlet. Every billable record belongs to a branch.
type Branch struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Code      string         `gorm:"size:20;unique;not null" json:"code"`
	Address   string         `gorm:"type:text" json:"address,omitempty"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	TaxID     string         `gorm:"size:50" json:"tax_id,omitempty"`
	Currency  string         `gorm:"size:3;not null" json:"currency"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new branch
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}

// ReceiptHeader is the header printed on bills from this branch.
func (b *Branch) ReceiptHeader() ReceiptHeader {
	return ReceiptHeader{StoreName: b.Name, Address: b.Address, Phone: b.Phone, TaxID: b.TaxID}
}
