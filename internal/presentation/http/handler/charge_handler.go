package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
)

// ChargeHandler serves the stateless calculator and the charge rule registry
type ChargeHandler struct {
	chargeService *service.ChargeService
}

// NewChargeHandler creates a new charge handler
func NewChargeHandler(chargeService *service.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

func parseAppliesTo(s string) (enum.BillableKind, error) {
	kind, err := enum.ParseBillableKind(s)
	if err != nil {
		return 0, apperror.NewFieldError("applies_to", "must be reservation or order")
	}
	return kind, nil
}

// Preview computes a breakdown for unsaved lines, used for live totals while a bill is edited
func (h *ChargeHandler) Preview(c *gin.Context) {
	var req request.ChargePreviewRequest
	if !bindJSON(c, &req) {
		return
	}
	kind, err := parseAppliesTo(req.AppliesTo)
	if err != nil {
		response.Error(c, err)
		return
	}
	discount, err := discountSpec(req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	input := &service.PreviewInput{
		Kind:     kind,
		Lines:    make([]billing.Line, len(req.Lines)),
		Discount: discount,
	}
	for i, l := range req.Lines {
		input.Lines[i] = billing.Line{Description: l.Description, Quantity: l.Quantity, UnitAmount: l.UnitAmount}
	}
	if req.Rules != nil {
		input.Rules = make([]billing.ChargeRule, len(req.Rules))
		for i, r := range req.Rules {
			input.Rules[i] = billing.ChargeRule{Name: r.Name, Rate: r.Rate, Active: true}
		}
	}

	breakdown, err := h.chargeService.Preview(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charges computed", breakdown)
}

// ListRules lists the branch's tax and service charge rules
func (h *ChargeHandler) ListRules(c *gin.Context) {
	var appliesTo *enum.BillableKind
	if s := c.Query("applies_to"); s != "" {
		kind, err := parseAppliesTo(s)
		if err != nil {
			response.Error(c, err)
			return
		}
		appliesTo = &kind
	}

	rules, err := h.chargeService.ListRules(c.Request.Context(), appliesTo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charge rules retrieved successfully", rules)
}

func (h *ChargeHandler) ruleInput(c *gin.Context) (*service.ChargeRuleInput, bool) {
	var req request.ChargeRuleRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	kind, err := parseAppliesTo(req.AppliesTo)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &service.ChargeRuleInput{
		Name:      req.Name,
		Rate:      req.Rate,
		Active:    active,
		AppliesTo: kind,
		SortOrder: req.SortOrder,
	}, true
}

// CreateRule adds a rule
func (h *ChargeHandler) CreateRule(c *gin.Context) {
	input, ok := h.ruleInput(c)
	if !ok {
		return
	}

	rule, err := h.chargeService.CreateRule(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Charge rule created successfully", rule)
}

// UpdateRule replaces a rule
func (h *ChargeHandler) UpdateRule(c *gin.Context) {
	id, ok := pathID(c, "charge rule")
	if !ok {
		return
	}
	input, ok := h.ruleInput(c)
	if !ok {
		return
	}

	rule, err := h.chargeService.UpdateRule(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charge rule updated successfully", rule)
}

// DeleteRule removes a rule
func (h *ChargeHandler) DeleteRule(c *gin.Context) {
	id, ok := pathID(c, "charge rule")
	if !ok {
		return
	}

	if err := h.chargeService.DeleteRule(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charge rule deleted successfully", nil)
}
