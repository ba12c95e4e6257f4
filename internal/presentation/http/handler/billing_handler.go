package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
)

// BillingHandler serves the payment, balance and discount endpoints of one
// billable kind. Reservations and orders each get their own instance.
type BillingHandler struct {
	kind            enum.BillableKind
	ledgerService   *service.LedgerService
	discountService *service.DiscountService
}

// NewBillingHandler creates a billing handler for kind
func NewBillingHandler(kind enum.BillableKind, ledgerService *service.LedgerService, discountService *service.DiscountService) *BillingHandler {
	return &BillingHandler{kind: kind, ledgerService: ledgerService, discountService: discountService}
}

func (h *BillingHandler) resource() string {
	return h.kind.String()
}

// RecordPayment records a payment against the bill
// @Summary Record payment
// @Description Appends a payment; rejected with 422 when it exceeds the remaining balance
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Client-generated key"
// @Param request body request.RecordPaymentRequest true "Payment"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, h.resource())
	if !ok {
		return
	}
	var req request.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	paymentType, err := enum.ParsePaymentType(req.PaymentType)
	if err != nil {
		response.Error(c, apperror.NewFieldError("payment_type", "must be one of advance, partial, full, credit"))
		return
	}

	result, err := h.ledgerService.RecordPayment(c.Request.Context(), h.kind, id, &service.RecordPaymentInput{
		Amount:               req.Amount,
		PaymentType:          paymentType,
		PaymentMethod:        req.PaymentMethod,
		TransactionReference: req.TransactionReference,
		DueDate:              req.DueDate,
		Notes:                req.Notes,
		ExpectedRemaining:    req.ExpectedRemaining,
		RecordedBy:           GetStaffID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", result)
}

// ListPayments lists the payments recorded against the bill
func (h *BillingHandler) ListPayments(c *gin.Context) {
	id, ok := pathID(c, h.resource())
	if !ok {
		return
	}

	payments, err := h.ledgerService.ListPayments(c.Request.Context(), h.kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// GetPayment returns one payment recorded against the bill
func (h *BillingHandler) GetPayment(c *gin.Context) {
	id, ok := pathID(c, h.resource())
	if !ok {
		return
	}
	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.ledgerService.GetPayment(c.Request.Context(), h.kind, id, paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// SuggestPayment returns the pre-fill amount for a payment type
func (h *BillingHandler) SuggestPayment(c *gin.Context) {
	id, ok := pathID(c, h.resource())
	if !ok {
		return
	}
	paymentType, err := enum.ParsePaymentType(c.Query("payment_type"))
	if err != nil {
		response.Error(c, apperror.NewFieldError("payment_type", "must be one of advance, partial, full, credit"))
		return
	}

	suggestion, err := h.ledgerService.Suggest(c.Request.Context(), h.kind, id, paymentType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Suggested amount computed", suggestion)
}

// GetBalance returns total, paid and remaining for the bill
func (h *BillingHandler) GetBalance(c *gin.Context) {
	id, ok := pathID(c, h.resource())
	if !ok {
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), h.kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", balance)
}

// PreviewDiscount shows the breakdown a draft discount would produce
func (h *BillingHandler) PreviewDiscount(c *gin.Context) {
	id, ok := pathID(c, h.resource())
	if !ok {
		return
	}
	var req request.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	spec, err := discountSpec(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	preview, err := h.discountService.PreviewDiscount(c.Request.Context(), h.kind, id, *spec)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount preview computed", preview)
}

// ApplyDiscount persists a discount and recomputes the bill
func (h *BillingHandler) ApplyDiscount(c *gin.Context) {
	id, ok := pathID(c, h.resource())
	if !ok {
		return
	}
	var req request.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	spec, err := discountSpec(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.discountService.ApplyDiscount(c.Request.Context(), h.kind, id, *spec)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied successfully", result)
}
