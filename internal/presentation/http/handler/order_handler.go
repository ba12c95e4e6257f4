package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
)

// OrderHandler handles restaurant order HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		TableNo:    c.Query("table_no"),
		StartDate:  dateQuery(c, "start_date"),
		EndDate:    dateQuery(c, "end_date"),
		Unsettled:  c.Query("unsettled") == "true",
	}
	if s := c.Query("status"); s != "" {
		status, err := enum.ParseOrderStatus(s)
		if err != nil {
			response.Error(c, apperror.NewFieldError("status", "unknown order status"))
			return
		}
		params.Status = &status
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

// Get handles fetching a single order with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Create handles order creation
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	lines, err := orderLineInputs(req.Lines)
	if err != nil {
		response.Error(c, err)
		return
	}
	discount, err := discountSpec(req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		TableNo:       req.TableNo,
		ReservationID: req.ReservationID,
		GuestName:     req.GuestName,
		Covers:        req.Covers,
		Notes:         req.Notes,
		Lines:         lines,
		Discount:      discount,
		CreatedBy:     GetStaffID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// ReplaceLines replaces the order lines and recomputes the bill
func (h *OrderHandler) ReplaceLines(c *gin.Context) {
	id, ok := pathID(c, "order")
	if !ok {
		return
	}
	var req request.ReplaceOrderLinesRequest
	if !bindJSON(c, &req) {
		return
	}
	lines, err := orderLineInputs(req.Lines)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.ReplaceLines(c.Request.Context(), id, lines)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order lines updated successfully", order)
}

// UpdateStatus marks an order served, settled or cancelled
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "order")
	if !ok {
		return
	}
	var req request.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewFieldError("status", "unknown order status"))
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}
