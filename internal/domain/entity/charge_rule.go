package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
)

// ChargeRule is a registry entry for a tax or service charge. Rate is a
// numeric percent: 13 means 13%.
type ChargeRule struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	BranchID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name      string            `gorm:"size:100;not null" json:"name"`
	Rate      decimal.Decimal   `gorm:"type:numeric(6,3);not null" json:"rate"`
	Active    bool              `gorm:"not null" json:"active"`
	AppliesTo enum.BillableKind `gorm:"not null;index" json:"applies_to"`
	SortOrder int               `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new charge rule
func (c *ChargeRule) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ChargeRule model
func (ChargeRule) TableName() string {
	return "charge_rules"
}

// Rule converts the registry entry for the calculator.
func (c ChargeRule) Rule() billing.ChargeRule {
	return billing.ChargeRule{Name: c.Name, Rate: c.Rate, Active: c.Active}
}

// BillingRules converts a registry slice in order.
func BillingRules(rules []ChargeRule) []billing.ChargeRule {
	out := make([]billing.ChargeRule, len(rules))
	for i, r := range rules {
		out[i] = r.Rule()
	}
	return out
}
