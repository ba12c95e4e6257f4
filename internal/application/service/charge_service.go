package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
)

// ChargeService owns the charge-rule registry and runs the calculator for
// previews and for every write of an entity's derived charge fields.
type ChargeService struct {
	ruleRepo repository.ChargeRuleRepository
}

// NewChargeService creates a new charge service
func NewChargeService(ruleRepo repository.ChargeRuleRepository) *ChargeService {
	return &ChargeService{ruleRepo: ruleRepo}
}

// ActiveRules returns the calculator view of the branch's active rules for a kind
func (s *ChargeService) ActiveRules(ctx context.Context, kind enum.BillableKind) ([]billing.ChargeRule, error) {
	rules, err := s.ruleRepo.ListActive(ctx, kind)
	if err != nil {
		return nil, err
	}
	return entity.BillingRules(rules), nil
}

// Compute runs the calculator with the branch's active rules for kind
func (s *ChargeService) Compute(ctx context.Context, kind enum.BillableKind, lines []billing.Line, discount *billing.DiscountSpec) (billing.Breakdown, error) {
	rules, err := s.ActiveRules(ctx, kind)
	if err != nil {
		return billing.Breakdown{}, err
	}
	return billing.ComputeCharges(lines, rules, discount)
}

// PreviewInput is a stateless calculation request. When Rules is nil the
// branch's active rules for Kind are used.
type PreviewInput struct {
	Kind     enum.BillableKind
	Lines    []billing.Line
	Rules    []billing.ChargeRule
	Discount *billing.DiscountSpec
}

// Preview computes a breakdown without touching any stored entity
func (s *ChargeService) Preview(ctx context.Context, input *PreviewInput) (*billing.Breakdown, error) {
	rules := input.Rules
	if rules == nil {
		var err error
		if rules, err = s.ActiveRules(ctx, input.Kind); err != nil {
			return nil, err
		}
	}

	b, err := billing.ComputeCharges(input.Lines, rules, input.Discount)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ChargeRuleInput represents a create or update of a registry entry
type ChargeRuleInput struct {
	Name      string
	Rate      decimal.Decimal
	Active    bool
	AppliesTo enum.BillableKind
	SortOrder int
}

func (in *ChargeRuleInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if in.Rate.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "rate", Message: "must not be negative"})
	}
	if !in.AppliesTo.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "applies_to", Message: "must be reservation or order"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// ListRules lists the branch's rules, optionally for one kind
func (s *ChargeService) ListRules(ctx context.Context, appliesTo *enum.BillableKind) ([]entity.ChargeRule, error) {
	return s.ruleRepo.List(ctx, appliesTo)
}

// GetRule retrieves a rule by ID
func (s *ChargeService) GetRule(ctx context.Context, id uuid.UUID) (*entity.ChargeRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperror.NewNotFoundError("Charge rule")
	}
	return rule, nil
}

// CreateRule adds a rule to the caller's branch. Existing bills keep their
// stored totals until their lines or discount are edited.
func (s *ChargeService) CreateRule(ctx context.Context, input *ChargeRuleInput) (*entity.ChargeRule, error) {
	branchID, err := branchFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	rule := &entity.ChargeRule{
		BranchID:  branchID,
		Name:      strings.TrimSpace(input.Name),
		Rate:      input.Rate,
		Active:    input.Active,
		AppliesTo: input.AppliesTo,
		SortOrder: input.SortOrder,
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRule replaces a rule's fields
func (s *ChargeService) UpdateRule(ctx context.Context, id uuid.UUID, input *ChargeRuleInput) (*entity.ChargeRule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	rule, err := s.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}

	rule.Name = strings.TrimSpace(input.Name)
	rule.Rate = input.Rate
	rule.Active = input.Active
	rule.AppliesTo = input.AppliesTo
	rule.SortOrder = input.SortOrder

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteRule removes a rule
func (s *ChargeService) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRule(ctx, id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, id)
}
