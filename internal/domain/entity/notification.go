package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const NotificationKindLowStock = "low_stock"

// Notification is an in-app message shown to branch staff.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BranchID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	Kind        string     `gorm:"size:50;not null;index" json:"kind"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Message     string     `gorm:"type:text" json:"message"`
	ReferenceID *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
