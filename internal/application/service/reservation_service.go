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

// ReservationService handles reservation-related operations
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	charges         *ChargeService
	locker          lock.Locker
	now             func() time.Time
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservationRepo repository.ReservationRepository,
	charges *ChargeService,
	locker lock.Locker,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		charges:         charges,
		locker:          locker,
		now:             time.Now,
	}
}

// ReservationLineInput represents a room or extra on a reservation
type ReservationLineInput struct {
	RoomNumber  string
	Description string
	Quantity    int
	UnitAmount  money.Money
}

// CreateReservationInput represents the create reservation input
type CreateReservationInput struct {
	GuestName  string
	GuestPhone string
	GuestEmail string
	CheckIn    time.Time
	CheckOut   time.Time
	Notes      string
	Lines      []ReservationLineInput
	Discount   *billing.DiscountSpec
	CreatedBy  *uuid.UUID
}

func reservationLines(inputs []ReservationLineInput) ([]entity.ReservationLine, []billing.Line) {
	lines := make([]entity.ReservationLine, len(inputs))
	calc := make([]billing.Line, len(inputs))
	for i, in := range inputs {
		lines[i] = entity.ReservationLine{
			Position:    i,
			RoomNumber:  in.RoomNumber,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitAmount:  in.UnitAmount,
		}
		calc[i] = lines[i].BillingLine()
	}
	return lines, calc
}

func setReservationLineTotals(lines []entity.ReservationLine) {
	for i := range lines {
		lines[i].LineTotal = lines[i].BillingLine().Amount()
	}
}

// CreateReservation books a stay and computes its initial charges
func (s *ReservationService) CreateReservation(ctx context.Context, input *CreateReservationInput) (*entity.Reservation, error) {
	branchID, err := branchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var errs []apperror.FieldError
	if strings.TrimSpace(input.GuestName) == "" {
		errs = append(errs, apperror.FieldError{Field: "guest_name", Message: "is required"})
	}
	if !input.CheckOut.After(input.CheckIn) {
		errs = append(errs, apperror.FieldError{Field: "check_out", Message: "must be after check_in"})
	}
	if len(input.Lines) == 0 {
		errs = append(errs, apperror.FieldError{Field: "lines", Message: "at least one line is required"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	lines, calc := reservationLines(input.Lines)
	breakdown, err := s.charges.Compute(ctx, enum.BillableReservation, calc, input.Discount)
	if err != nil {
		return nil, err
	}
	setReservationLineTotals(lines)

	discount := billing.NoDiscount
	if input.Discount != nil {
		discount = *input.Discount
	}

	reservation := &entity.Reservation{
		BranchID:      branchID,
		ReservationNo: utils.GenerateReferenceNo(utils.PrefixReservation, s.now()),
		GuestName:     strings.TrimSpace(input.GuestName),
		GuestPhone:    input.GuestPhone,
		GuestEmail:    input.GuestEmail,
		CheckIn:       input.CheckIn,
		CheckOut:      input.CheckOut,
		Status:        enum.ReservationStatusBooked,
		Notes:         input.Notes,
		CreatedBy:     input.CreatedBy,
		Lines:         lines,
	}
	reservation.Apply(breakdown, discount)

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, err
	}
	return s.GetReservation(ctx, reservation.ID)
}

// GetReservation retrieves a reservation with its lines
func (s *ReservationService) GetReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, apperror.NewNotFoundError("Reservation")
	}
	return reservation, nil
}

// ListReservations lists reservations with filtering
func (s *ReservationService) ListReservations(ctx context.Context, params *repository.ReservationFilterParams) (*pagination.PaginatedResult[entity.Reservation], error) {
	reservations, total, err := s.reservationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(reservations, pag), nil
}

// ReplaceLines swaps the reservation's lines and recomputes its charges with
// the current rules and the persisted discount.
func (s *ReservationService) ReplaceLines(ctx context.Context, id uuid.UUID, inputs []ReservationLineInput) (*entity.Reservation, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewFieldError("lines", "at least one line is required")
	}
	rules, err := s.charges.ActiveRules(ctx, enum.BillableReservation)
	if err != nil {
		return nil, err
	}

	err = withBillableLock(ctx, s.locker, enum.BillableReservation, id, func() error {
		reservation, err := s.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if reservation.Status.IsFinal() {
			return closedError(enum.BillableReservation, reservation.Status.String())
		}

		lines, calc := reservationLines(inputs)
		discount := reservation.Discount()
		breakdown, err := billing.ComputeCharges(calc, rules, &discount)
		if err != nil {
			return err
		}
		setReservationLineTotals(lines)

		reservation.Lines = lines
		reservation.Apply(breakdown, discount)
		return s.reservationRepo.ReplaceLines(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}
	return s.GetReservation(ctx, id)
}

var reservationTransitions = map[enum.ReservationStatus][]enum.ReservationStatus{
	enum.ReservationStatusBooked:     {enum.ReservationStatusCheckedIn, enum.ReservationStatusCancelled},
	enum.ReservationStatusCheckedIn:  {enum.ReservationStatusCheckedOut, enum.ReservationStatusSettled},
	enum.ReservationStatusCheckedOut: {enum.ReservationStatusSettled},
}

// UpdateStatus moves a reservation through its lifecycle. Cancelling requires
// that nothing has been paid; settling requires a zero balance.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ReservationStatus) (*entity.Reservation, error) {
	err := withBillableLock(ctx, s.locker, enum.BillableReservation, id, func() error {
		reservation, err := s.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if !allowed(reservationTransitions[reservation.Status], status) {
			return apperror.NewConflictError(fmt.Sprintf("Cannot move reservation from %s to %s", reservation.Status, status))
		}
		if err := checkStatusBalance(status == enum.ReservationStatusCancelled, status == enum.ReservationStatusSettled, reservation.BillingSnapshot); err != nil {
			return err
		}
		return s.reservationRepo.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return nil, err
	}
	return s.GetReservation(ctx, id)
}

func allowed[T comparable](next []T, target T) bool {
	for _, n := range next {
		if n == target {
			return true
		}
	}
	return false
}

func checkStatusBalance(cancelling, settling bool, snap entity.BillingSnapshot) error {
	if cancelling && snap.PaidAmount > 0 {
		return apperror.NewConflictError("Cannot cancel with payments recorded")
	}
	if settling && snap.RemainingAmount() > 0 {
		return apperror.NewConflictError("Cannot settle with " + snap.RemainingAmount().String() + " outstanding")
	}
	return nil
}
