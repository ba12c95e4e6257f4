package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
)

// NotificationHandler serves in-app notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles listing notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	result, err := h.notificationService.ListNotifications(c.Request.Context(), c.Query("unread") == "true", paginationFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Notifications retrieved successfully", result)
}

// MarkRead marks a notification read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification marked as read", nil)
}
