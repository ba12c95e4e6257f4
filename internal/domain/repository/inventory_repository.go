package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// ErrInsufficientStock is returned when an adjustment would take stock below zero
var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryRepository defines the interface for inventory data operations
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error)
	List(ctx context.Context, params *InventoryFilterParams) ([]entity.InventoryItem, int64, error)
	// Adjust applies delta to the stock and records the adjustment atomically.
	// Returns nil, nil if the item does not exist.
	Adjust(ctx context.Context, id uuid.UUID, delta decimal.Decimal, adj *entity.StockAdjustment) (*entity.InventoryItem, error)
	// ListLowStock returns items with current_stock <= reorder_level
	ListLowStock(ctx context.Context) ([]entity.InventoryItem, error)
}

// InventoryFilterParams contains filtering parameters for inventory queries
type InventoryFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	LowOnly    bool
}
