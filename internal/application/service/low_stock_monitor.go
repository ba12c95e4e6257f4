package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/notify"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
)

// LowStockMonitor watches every branch's inventory and raises one alert per
// item each time it drops to its reorder level. An item is alerted again only
// after it has recovered above the level.
type LowStockMonitor struct {
	inventoryRepo repository.InventoryRepository
	notifier      notify.Notifier
	log           *zap.Logger
	now           func() time.Time

	mu       sync.Mutex
	notified map[uuid.UUID]struct{}

	cron *cron.Cron
}

// NewLowStockMonitor creates a monitor; call Start to schedule it
func NewLowStockMonitor(inventoryRepo repository.InventoryRepository, notifier notify.Notifier, log *zap.Logger) *LowStockMonitor {
	return &LowStockMonitor{
		inventoryRepo: inventoryRepo,
		notifier:      notifier,
		log:           log,
		now:           time.Now,
		notified:      make(map[uuid.UUID]struct{}),
	}
}

// Start runs Check on the cron schedule (e.g. "@every 5m") and once immediately
func (m *LowStockMonitor) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, m.runScheduled); err != nil {
		return err
	}
	m.cron = c
	c.Start()
	m.log.Info("Low-stock monitor started", zap.String("schedule", schedule))

	go m.runScheduled()
	return nil
}

// Stop halts the schedule and waits for a running check to finish
func (m *LowStockMonitor) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
}

func (m *LowStockMonitor) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := m.Check(ctx); err != nil {
		m.log.Error("low-stock check failed", zap.Error(err))
	}
}

// Check scans all branches and alerts items that newly dropped to their
// reorder level.
func (m *LowStockMonitor) Check(ctx context.Context) error {
	items, err := m.inventoryRepo.ListLowStock(infraRepo.WithSkipBranchScope(ctx, true))
	if err != nil {
		return err
	}

	low := make(map[uuid.UUID]struct{}, len(items))
	var fresh []entity.InventoryItem

	m.mu.Lock()
	for _, item := range items {
		low[item.ID] = struct{}{}
		if _, seen := m.notified[item.ID]; !seen {
			m.notified[item.ID] = struct{}{}
			fresh = append(fresh, item)
		}
	}
	for id := range m.notified {
		if _, still := low[id]; !still {
			delete(m.notified, id)
		}
	}
	m.mu.Unlock()

	for _, item := range fresh {
		m.alert(ctx, item)
	}
	return nil
}

// Observe updates the notified set for one item right after its stock changed
func (m *LowStockMonitor) Observe(ctx context.Context, item entity.InventoryItem) {
	m.mu.Lock()
	_, seen := m.notified[item.ID]
	switch {
	case !item.IsLow():
		delete(m.notified, item.ID)
		seen = true
	case !seen:
		m.notified[item.ID] = struct{}{}
	}
	m.mu.Unlock()

	if !seen {
		m.alert(ctx, item)
	}
}

// Notified reports whether an alert is outstanding for the item
func (m *LowStockMonitor) Notified(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.notified[id]
	return ok
}

// alert stays marked even when a channel fails so one broken notifier does
// not repeat the alert on the others every tick.
func (m *LowStockMonitor) alert(ctx context.Context, item entity.InventoryItem) {
	a := entity.NewStockAlert(item, m.now())
	if err := m.notifier.Notify(ctx, a); err != nil {
		m.log.Warn("low-stock notification failed",
			zap.String("item_id", item.ID.String()),
			zap.String("item", item.Name),
			zap.Error(err),
		)
		return
	}
	m.log.Info("Low-stock alert raised",
		zap.String("item_id", item.ID.String()),
		zap.String("item", item.Name),
		zap.String("current_stock", item.CurrentStock.String()),
	)
}
