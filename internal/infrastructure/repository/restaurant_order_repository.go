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

type restaurantOrderRepository struct {
	db *gorm.DB
}

// NewRestaurantOrderRepository creates a new restaurant order repository
func NewRestaurantOrderRepository(db *gorm.DB) domainRepo.RestaurantOrderRepository {
	return &restaurantOrderRepository{db: db}
}

func (r *restaurantOrderRepository) Create(ctx context.Context, order *entity.RestaurantOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *restaurantOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RestaurantOrder, error) {
	var order entity.RestaurantOrder
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *restaurantOrderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.RestaurantOrder, int64, error) {
	var orders []entity.RestaurantOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RestaurantOrder{}).Scopes(BranchScope(ctx))

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(order_no) LIKE ? OR LOWER(guest_name) LIKE ?", like, like)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.TableNo != "" {
		query = query.Where("table_no = ?", params.TableNo)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if params.Unsettled {
		query = query.Where("total_amount > paid_amount")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *restaurantOrderRepository) ReplaceLines(ctx context.Context, order *entity.RestaurantOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&entity.OrderLine{}).Error; err != nil {
			return err
		}
		for i := range order.Lines {
			order.Lines[i].ID = uuid.Nil
			order.Lines[i].OrderID = order.ID
			order.Lines[i].Position = i
		}
		if len(order.Lines) > 0 {
			if err := tx.Create(&order.Lines).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entity.RestaurantOrder{}).
			Where("id = ?", order.ID).
			Updates(order.ChargeColumns()).Error
	})
}

func (r *restaurantOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.RestaurantOrder{}).
		Scopes(BranchScope(ctx)).
		Where("id = ?", id).
		Update("status", status).Error
}
