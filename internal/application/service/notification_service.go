package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// NotificationService exposes in-app notifications to branch staff
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListNotifications lists the branch's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, unreadOnly bool, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Notification], error) {
	items, total, err := s.notificationRepo.List(ctx, unreadOnly, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// MarkRead marks a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	ok, err := s.notificationRepo.MarkRead(ctx, id, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFoundError("Notification")
	}
	return nil
}
