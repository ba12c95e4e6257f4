package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
)

// ChargeRuleRepository defines the interface for the tax and service-charge registry
type ChargeRuleRepository interface {
	Create(ctx context.Context, rule *entity.ChargeRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ChargeRule, error)
	Update(ctx context.Context, rule *entity.ChargeRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all rules of the branch, optionally limited to one kind
	List(ctx context.Context, appliesTo *enum.BillableKind) ([]entity.ChargeRule, error)
	// ListActive returns the active rules applied to a kind, in sort order
	ListActive(ctx context.Context, appliesTo enum.BillableKind) ([]entity.ChargeRule, error)
}
