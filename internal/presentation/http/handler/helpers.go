package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// GetStaffID extracts the staff ID from the Gin context
func GetStaffID(c *gin.Context) *uuid.UUID {
	id := middleware.GetStaffID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// GetStaffRole extracts the staff role from the Gin context
func GetStaffRole(c *gin.Context) string {
	return c.GetString(middleware.StaffRoleKey)
}

// pathID parses the :id path parameter, writing a 400 when it is malformed
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func paginationFromQuery(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

func dateQuery(c *gin.Context, key string) *time.Time {
	s := c.Query(key)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func discountSpec(req *request.DiscountRequest) (*billing.DiscountSpec, error) {
	if req == nil {
		return nil, nil
	}
	spec := billing.DiscountSpec{Value: req.Value, Reason: req.Reason}
	if req.Type != "" {
		t, err := enum.ParseDiscountType(req.Type)
		if err != nil {
			return nil, apperror.NewFieldError("discount.type", "must be one of none, percentage, fixed")
		}
		spec.Type = t
	}
	return &spec, nil
}

func reservationLineInputs(reqs []request.ReservationLineRequest) []service.ReservationLineInput {
	out := make([]service.ReservationLineInput, len(reqs))
	for i, l := range reqs {
		out[i] = service.ReservationLineInput{
			RoomNumber:  l.RoomNumber,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitAmount:  l.UnitAmount,
		}
	}
	return out
}

func orderLineInputs(reqs []request.OrderLineRequest) ([]service.OrderLineInput, error) {
	out := make([]service.OrderLineInput, len(reqs))
	var errs []apperror.FieldError
	for i, l := range reqs {
		station := enum.StationKitchen
		if l.Station != "" {
			s, err := enum.ParseStation(l.Station)
			if err != nil {
				errs = append(errs, apperror.FieldError{
					Field:   fmt.Sprintf("lines[%d].station", i),
					Message: "must be kitchen or bar",
				})
			}
			station = s
		}
		out[i] = service.OrderLineInput{
			Description: l.Description,
			Station:     station,
			Quantity:    l.Quantity,
			UnitAmount:  l.UnitAmount,
			Notes:       l.Notes,
		}
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return out, nil
}
