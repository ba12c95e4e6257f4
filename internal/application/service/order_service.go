package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/lock"
	"github.com/sangkips/hotel-billing-api/pkg/money"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// OrderService handles restaurant order operations
type OrderService struct {
	orderRepo       repository.RestaurantOrderRepository
	reservationRepo repository.ReservationRepository
	charges         *ChargeService
	locker          lock.Locker
	now             func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.RestaurantOrderRepository,
	reservationRepo repository.ReservationRepository,
	charges *ChargeService,
	locker lock.Locker,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		reservationRepo: reservationRepo,
		charges:         charges,
		locker:          locker,
		now:             time.Now,
	}
}

// OrderLineInput represents a dish or drink in an order
type OrderLineInput struct {
	Description string
	Station     enum.Station
	Quantity    int
	UnitAmount  money.Money
	Notes       string
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	TableNo       string
	ReservationID *uuid.UUID
	GuestName     string
	Covers        int
	Notes         string
	Lines         []OrderLineInput
	Discount      *billing.DiscountSpec
	CreatedBy     *uuid.UUID
}

func orderLines(inputs []OrderLineInput) ([]entity.OrderLine, []billing.Line) {
	lines := make([]entity.OrderLine, len(inputs))
	calc := make([]billing.Line, len(inputs))
	for i, in := range inputs {
		lines[i] = entity.OrderLine{
			Position:    i,
			Description: strings.TrimSpace(in.Description),
			Station:     in.Station,
			Quantity:    in.Quantity,
			UnitAmount:  in.UnitAmount,
			Notes:       in.Notes,
		}
		calc[i] = lines[i].BillingLine()
	}
	return lines, calc
}

func setOrderLineTotals(lines []entity.OrderLine) {
	for i := range lines {
		lines[i].LineTotal = lines[i].BillingLine().Amount()
	}
}

func validateStations(inputs []OrderLineInput) error {
	var errs []apperror.FieldError
	for i, in := range inputs {
		if !in.Station.IsValid() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("lines[%d].station", i), Message: "must be kitchen or bar"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// CreateOrder opens a table or room-service order and computes its charges
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.RestaurantOrder, error) {
	branchID, err := branchFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, apperror.NewFieldError("lines", "at least one line is required")
	}
	if err := validateStations(input.Lines); err != nil {
		return nil, err
	}

	// Room-service orders must point at a reservation of the same branch
	if input.ReservationID != nil {
		reservation, err := s.reservationRepo.GetByID(ctx, *input.ReservationID)
		if err != nil {
			return nil, err
		}
		if reservation == nil {
			return nil, apperror.NewNotFoundError("Reservation")
		}
		if input.GuestName == "" {
			input.GuestName = reservation.GuestName
		}
	}

	lines, calc := orderLines(input.Lines)
	breakdown, err := s.charges.Compute(ctx, enum.BillableOrder, calc, input.Discount)
	if err != nil {
		return nil, err
	}
	setOrderLineTotals(lines)

	discount := billing.NoDiscount
	if input.Discount != nil {
		discount = *input.Discount
	}
	covers := input.Covers
	if covers < 1 {
		covers = 1
	}

	order := &entity.RestaurantOrder{
		BranchID:      branchID,
		OrderNo:       utils.GenerateReferenceNo(utils.PrefixOrder, s.now()),
		TableNo:       strings.TrimSpace(input.TableNo),
		ReservationID: input.ReservationID,
		GuestName:     input.GuestName,
		Covers:        covers,
		Status:        enum.OrderStatusOpen,
		Notes:         input.Notes,
		CreatedBy:     input.CreatedBy,
		Lines:         lines,
	}
	order.Apply(breakdown, discount)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, order.ID)
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.RestaurantOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.RestaurantOrder], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ReplaceLines swaps the order's lines and recomputes its charges
func (s *OrderService) ReplaceLines(ctx context.Context, id uuid.UUID, inputs []OrderLineInput) (*entity.RestaurantOrder, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewFieldError("lines", "at least one line is required")
	}
	if err := validateStations(inputs); err != nil {
		return nil, err
	}
	rules, err := s.charges.ActiveRules(ctx, enum.BillableOrder)
	if err != nil {
		return nil, err
	}

	err = withBillableLock(ctx, s.locker, enum.BillableOrder, id, func() error {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if order.Status.IsFinal() {
			return closedError(enum.BillableOrder, order.Status.String())
		}

		lines, calc := orderLines(inputs)
		discount := order.Discount()
		breakdown, err := billing.ComputeCharges(calc, rules, &discount)
		if err != nil {
			return err
		}
		setOrderLineTotals(lines)

		order.Lines = lines
		order.Apply(breakdown, discount)
		return s.orderRepo.ReplaceLines(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

var orderTransitions = map[enum.OrderStatus][]enum.OrderStatus{
	enum.OrderStatusOpen:   {enum.OrderStatusServed, enum.OrderStatusSettled, enum.OrderStatusCancelled},
	enum.OrderStatusServed: {enum.OrderStatusSettled, enum.OrderStatusCancelled},
}

// UpdateStatus moves an order through its lifecycle
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (*entity.RestaurantOrder, error) {
	err := withBillableLock(ctx, s.locker, enum.BillableOrder, id, func() error {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if !allowed(orderTransitions[order.Status], status) {
			return apperror.NewConflictError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, status))
		}
		if err := checkStatusBalance(status == enum.OrderStatusCancelled, status == enum.OrderStatusSettled, order.BillingSnapshot); err != nil {
			return err
		}
		return s.orderRepo.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}
