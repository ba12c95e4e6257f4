package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// StockObserver is told about every item whose stock changed.
type StockObserver interface {
	Observe(ctx context.Context, item entity.InventoryItem)
}

// InventoryService handles inventory items and stock adjustments
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
	observer      StockObserver
}

// NewInventoryService creates a new inventory service. observer may be nil.
func NewInventoryService(inventoryRepo repository.InventoryRepository, observer StockObserver) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo, observer: observer}
}

// CreateItemInput represents the create inventory item input
type CreateItemInput struct {
	Name         string
	SKU          string
	Unit         string
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
}

// CreateItem adds an item to the caller's branch
func (s *InventoryService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.InventoryItem, error) {
	branchID, err := branchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var errs []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(input.Unit) == "" {
		errs = append(errs, apperror.FieldError{Field: "unit", Message: "is required"})
	}
	if input.CurrentStock.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "current_stock", Message: "must not be negative"})
	}
	if input.ReorderLevel.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "reorder_level", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	item := &entity.InventoryItem{
		BranchID:     branchID,
		Name:         strings.TrimSpace(input.Name),
		SKU:          strings.TrimSpace(input.SKU),
		Unit:         strings.TrimSpace(input.Unit),
		CurrentStock: input.CurrentStock,
		ReorderLevel: input.ReorderLevel,
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.observe(ctx, item)
	return item, nil
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}
	return item, nil
}

// ListItems lists inventory items with filtering
func (s *InventoryService) ListItems(ctx context.Context, params *repository.InventoryFilterParams) (*pagination.PaginatedResult[entity.InventoryItem], error) {
	items, total, err := s.inventoryRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// AdjustStockInput represents a manual stock change
type AdjustStockInput struct {
	Delta   decimal.Decimal
	Reason  string
	StaffID *uuid.UUID
}

// AdjustStock applies a signed delta to an item's stock
func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, input *AdjustStockInput) (*entity.InventoryItem, error) {
	if input.Delta.IsZero() {
		return nil, apperror.NewFieldError("delta", "must not be zero")
	}

	adj := &entity.StockAdjustment{Delta: input.Delta, Reason: input.Reason, StaffID: input.StaffID}
	item, err := s.inventoryRepo.Adjust(ctx, id, input.Delta, adj)
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, apperror.NewFieldError("delta", "would take stock below zero")
	}
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}
	s.observe(ctx, item)
	return item, nil
}

// ListLowStock returns the branch's items at or below their reorder level
func (s *InventoryService) ListLowStock(ctx context.Context) ([]entity.InventoryItem, error) {
	if _, err := branchFromContext(ctx); err != nil {
		return nil, err
	}
	items, err := s.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.InventoryItem{}
	}
	return items, nil
}

func (s *InventoryService) observe(ctx context.Context, item *entity.InventoryItem) {
	if s.observer != nil {
		s.observer.Observe(ctx, *item)
	}
}
