package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a stocked ingredient or supply watched by the low-stock monitor.
type InventoryItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	SKU          string          `gorm:"size:100" json:"sku,omitempty"`
	Unit         string          `gorm:"size:20;not null" json:"unit"`
	CurrentStock decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0" json:"current_stock"`
	ReorderLevel decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0" json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new inventory item
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLow reports current_stock <= reorder_level.
func (i InventoryItem) IsLow() bool {
	return i.CurrentStock.LessThanOrEqual(i.ReorderLevel)
}

// StockAdjustment records a manual change to an item's stock.
type StockAdjustment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Delta     decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"delta"`
	Reason    string          `gorm:"size:255" json:"reason,omitempty"`
	StaffID   *uuid.UUID      `gorm:"type:uuid" json:"staff_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new adjustment
func (a *StockAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockAdjustment model
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// StockAlert is what the low-stock monitor hands to notifiers.
type StockAlert struct {
	ItemID       uuid.UUID       `json:"item_id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	DetectedAt   time.Time       `json:"detected_at"`
}

// NewStockAlert snapshots an item that crossed its reorder level.
func NewStockAlert(item InventoryItem, at time.Time) StockAlert {
	return StockAlert{
		ItemID:       item.ID,
		BranchID:     item.BranchID,
		Name:         item.Name,
		Unit:         item.Unit,
		CurrentStock: item.CurrentStock,
		ReorderLevel: item.ReorderLevel,
		DetectedAt:   at,
	}
}

func (a StockAlert) Title() string {
	return "Low stock: " + a.Name
}

func (a StockAlert) Message() string {
	return fmt.Sprintf("%s is at %s %s (reorder level %s %s)",
		a.Name, a.CurrentStock.String(), a.Unit, a.ReorderLevel.String(), a.Unit)
}
