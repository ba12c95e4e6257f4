package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
)

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) domainRepo.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reservation, err
}

func (r *reservationRepository) List(ctx context.Context, params *domainRepo.ReservationFilterParams) ([]entity.Reservation, int64, error) {
	var reservations []entity.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Reservation{}).Scopes(BranchScope(ctx))

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(guest_name) LIKE ? OR LOWER(reservation_no) LIKE ?", like, like)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.From != nil {
		query = query.Where("check_out >= ?", *params.From)
	}

	if params.To != nil {
		query = query.Where("check_in <= ?", *params.To)
	}

	if params.Unsettled {
		query = query.Where("total_amount > paid_amount")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("check_in DESC, created_at DESC").
		Find(&reservations).Error

	return reservations, total, err
}

func (r *reservationRepository) ReplaceLines(ctx context.Context, reservation *entity.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", reservation.ID).Delete(&entity.ReservationLine{}).Error; err != nil {
			return err
		}
		for i := range reservation.Lines {
			reservation.Lines[i].ID = uuid.Nil
			reservation.Lines[i].ReservationID = reservation.ID
			reservation.Lines[i].Position = i
		}
		if len(reservation.Lines) > 0 {
			if err := tx.Create(&reservation.Lines).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entity.Reservation{}).
			Where("id = ?", reservation.ID).
			Updates(reservation.ChargeColumns()).Error
	})
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ReservationStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Reservation{}).
		Scopes(BranchScope(ctx)).
		Where("id = ?", id).
		Update("status", status).Error
}
