package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
)

const chargeRuleKeyPrefix = "charge_rules:"

// ChargeRuleCache is a read-through Redis cache in front of the active
// charge rules of a branch. Any write through it drops that branch's entries.
// Redis failures are logged and fall back to the wrapped repository.
type ChargeRuleCache struct {
	next   domainRepo.ChargeRuleRepository
	client redis.UniversalClient
	ttl    time.Duration
	log    *zap.Logger
}

// NewChargeRuleCache wraps a charge rule repository with a Redis cache
func NewChargeRuleCache(next domainRepo.ChargeRuleRepository, client redis.UniversalClient, ttl time.Duration, log *zap.Logger) *ChargeRuleCache {
	return &ChargeRuleCache{next: next, client: client, ttl: ttl, log: log}
}

var _ domainRepo.ChargeRuleRepository = (*ChargeRuleCache)(nil)

func activeKey(branchID uuid.UUID, kind enum.BillableKind) string {
	return chargeRuleKeyPrefix + branchID.String() + ":" + kind.String()
}

func (c *ChargeRuleCache) ListActive(ctx context.Context, appliesTo enum.BillableKind) ([]entity.ChargeRule, error) {
	branchID, ok := repository.GetBranchID(ctx)
	if !ok {
		return c.next.ListActive(ctx, appliesTo)
	}
	key := activeKey(branchID, appliesTo)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rules []entity.ChargeRule
		if err := json.Unmarshal(raw, &rules); err == nil {
			return rules, nil
		}
		c.log.Warn("discarding undecodable charge rule cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("charge rule cache read failed", zap.String("key", key), zap.Error(err))
	}

	rules, err := c.next.ListActive(ctx, appliesTo)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rules); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn("charge rule cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return rules, nil
}

func (c *ChargeRuleCache) List(ctx context.Context, appliesTo *enum.BillableKind) ([]entity.ChargeRule, error) {
	return c.next.List(ctx, appliesTo)
}

func (c *ChargeRuleCache) GetByID(ctx context.Context, id uuid.UUID) (*entity.ChargeRule, error) {
	return c.next.GetByID(ctx, id)
}

func (c *ChargeRuleCache) Create(ctx context.Context, rule *entity.ChargeRule) error {
	if err := c.next.Create(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx, rule.BranchID)
	return nil
}

func (c *ChargeRuleCache) Update(ctx context.Context, rule *entity.ChargeRule) error {
	if err := c.next.Update(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx, rule.BranchID)
	return nil
}

func (c *ChargeRuleCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	if branchID, ok := repository.GetBranchID(ctx); ok {
		c.invalidate(ctx, branchID)
	}
	return nil
}

// invalidate drops both kinds because a rule may have moved between them.
func (c *ChargeRuleCache) invalidate(ctx context.Context, branchID uuid.UUID) {
	keys := []string{
		activeKey(branchID, enum.BillableReservation),
		activeKey(branchID, enum.BillableOrder),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("charge rule cache invalidation failed", zap.String("branch_id", branchID.String()), zap.Error(err))
	}
}
