package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	// Create inserts the reservation together with its lines
	Create(ctx context.Context, reservation *entity.Reservation) error
	// GetByID loads the reservation with its lines
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	List(ctx context.Context, params *ReservationFilterParams) ([]entity.Reservation, int64, error)
	// ReplaceLines swaps the stored lines and charge fields in one transaction
	ReplaceLines(ctx context.Context, reservation *entity.Reservation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ReservationStatus) error
}

// ReservationFilterParams contains filtering parameters for reservation queries
type ReservationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ReservationStatus
	From       *time.Time
	To         *time.Time
	Unsettled  bool
}
