package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// NotificationRepository defines the interface for in-app notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, unreadOnly bool, params *pagination.PaginationParams) ([]entity.Notification, int64, error)
	// MarkRead returns false if the notification does not exist
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}
