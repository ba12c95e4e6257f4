package request

import "github.com/shopspring/decimal"

// CreateInventoryItemRequest represents an inventory item creation request
type CreateInventoryItemRequest struct {
	Name         string          `json:"name" binding:"required,max=255"`
	SKU          string          `json:"sku" binding:"max=100"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// AdjustStockRequest applies a signed change to an item's stock
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason" binding:"max=255"`
}

// InventoryFilterRequest represents inventory list filters
type InventoryFilterRequest struct {
	Search   string `form:"search"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
