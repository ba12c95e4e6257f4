package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
)

type chargeRuleRepository struct {
	db *gorm.DB
}

// NewChargeRuleRepository creates a new charge rule repository
func NewChargeRuleRepository(db *gorm.DB) domainRepo.ChargeRuleRepository {
	return &chargeRuleRepository{db: db}
}

func (r *chargeRuleRepository) Create(ctx context.Context, rule *entity.ChargeRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *chargeRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ChargeRule, error) {
	var rule entity.ChargeRule
	err := r.db.WithContext(ctx).Scopes(BranchScope(ctx)).First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rule, err
}

func (r *chargeRuleRepository) Update(ctx context.Context, rule *entity.ChargeRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *chargeRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(BranchScope(ctx)).Delete(&entity.ChargeRule{}, "id = ?", id).Error
}

func (r *chargeRuleRepository) List(ctx context.Context, appliesTo *enum.BillableKind) ([]entity.ChargeRule, error) {
	var rules []entity.ChargeRule
	query := r.db.WithContext(ctx).Scopes(BranchScope(ctx))
	if appliesTo != nil {
		query = query.Where("applies_to = ?", *appliesTo)
	}
	err := query.Order("applies_to, sort_order, name").Find(&rules).Error
	return rules, err
}

func (r *chargeRuleRepository) ListActive(ctx context.Context, appliesTo enum.BillableKind) ([]entity.ChargeRule, error) {
	var rules []entity.ChargeRule
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Where("applies_to = ? AND active = ?", appliesTo, true).
		Order("sort_order, name").
		Find(&rules).Error
	return rules, err
}
