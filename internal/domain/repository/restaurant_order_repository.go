package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// RestaurantOrderRepository defines the interface for restaurant order data operations
type RestaurantOrderRepository interface {
	Create(ctx context.Context, order *entity.RestaurantOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RestaurantOrder, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.RestaurantOrder, int64, error)
	ReplaceLines(ctx context.Context, order *entity.RestaurantOrder) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	TableNo    string
	StartDate  *time.Time
	EndDate    *time.Time
	Unsettled  bool
}
