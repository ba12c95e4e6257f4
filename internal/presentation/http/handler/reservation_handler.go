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

// ReservationHandler handles reservation HTTP requests
type ReservationHandler struct {
	reservationService *service.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Create handles reservation creation
func (h *ReservationHandler) Create(c *gin.Context) {
	var req request.CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	discount, err := discountSpec(req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), &service.CreateReservationInput{
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		GuestEmail: req.GuestEmail,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Notes:      req.Notes,
		Lines:      reservationLineInputs(req.Lines),
		Discount:   discount,
		CreatedBy:  GetStaffID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Reservation created successfully", reservation)
}

// List handles listing reservations
func (h *ReservationHandler) List(c *gin.Context) {
	params := &repository.ReservationFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		From:       dateQuery(c, "from"),
		To:         dateQuery(c, "to"),
		Unsettled:  c.Query("unsettled") == "true",
	}
	if s := c.Query("status"); s != "" {
		status, err := enum.ParseReservationStatus(s)
		if err != nil {
			response.Error(c, apperror.NewFieldError("status", "unknown reservation status"))
			return
		}
		params.Status = &status
	}

	result, err := h.reservationService.ListReservations(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Reservations retrieved successfully", result)
}

// Get handles fetching a reservation with its lines
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reservation retrieved successfully", reservation)
}

// ReplaceLines replaces the room lines and recomputes the bill
func (h *ReservationHandler) ReplaceLines(c *gin.Context) {
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}
	var req request.ReplaceReservationLinesRequest
	if !bindJSON(c, &req) {
		return
	}

	reservation, err := h.reservationService.ReplaceLines(c.Request.Context(), id, reservationLineInputs(req.Lines))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reservation lines updated successfully", reservation)
}

// UpdateStatus moves a reservation through check-in, check-out, settlement or cancellation
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}
	var req request.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseReservationStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewFieldError("status", "unknown reservation status"))
		return
	}

	reservation, err := h.reservationService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reservation status updated successfully", reservation)
}
