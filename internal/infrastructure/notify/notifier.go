package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/messaging"
	"github.com/sangkips/hotel-billing-api/pkg/email"
)

// Notifier delivers a low-stock alert on one channel
type Notifier interface {
	Notify(ctx context.Context, alert entity.StockAlert) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, alert entity.StockAlert) error

func (f NotifierFunc) Notify(ctx context.Context, alert entity.StockAlert) error {
	return f(ctx, alert)
}

// Multi fans an alert out to every notifier. A failing channel does not stop
// the others; all failures are returned joined.
type Multi struct {
	notifiers []Notifier
	log       *zap.Logger
}

// NewMulti creates a fan-out notifier
func NewMulti(log *zap.Logger, notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers, log: log}
}

func (m *Multi) Notify(ctx context.Context, alert entity.StockAlert) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			m.log.Warn("low stock notification failed",
				zap.String("item_id", alert.ItemID.String()),
				zap.String("channel", fmt.Sprintf("%T", n)),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DBNotifier stores an in-app notification for the item's branch
type DBNotifier struct {
	repo domainRepo.NotificationRepository
}

func NewDBNotifier(repo domainRepo.NotificationRepository) *DBNotifier {
	return &DBNotifier{repo: repo}
}

func (n *DBNotifier) Notify(ctx context.Context, alert entity.StockAlert) error {
	itemID := alert.ItemID
	return n.repo.Create(ctx, &entity.Notification{
		BranchID:    alert.BranchID,
		Kind:        entity.NotificationKindLowStock,
		Title:       alert.Title(),
		Message:     alert.Message(),
		ReferenceID: &itemID,
	})
}

// EventNotifier publishes the alert as a stock.low event
type EventNotifier struct {
	publisher messaging.Publisher
}

func NewEventNotifier(publisher messaging.Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

func (n *EventNotifier) Notify(ctx context.Context, alert entity.StockAlert) error {
	return n.publisher.PublishStockLow(ctx, messaging.NewStockLow(alert))
}

// EmailNotifier mails the alert to the store manager
type EmailNotifier struct {
	mailer   *email.EmailService
	branches domainRepo.BranchRepository
	to       string
}

func NewEmailNotifier(mailer *email.EmailService, branches domainRepo.BranchRepository, to string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, branches: branches, to: to}
}

func (n *EmailNotifier) Notify(ctx context.Context, alert entity.StockAlert) error {
	branchName := alert.BranchID.String()
	if b, err := n.branches.GetByID(ctx, alert.BranchID); err == nil && b != nil {
		branchName = b.Name
	}
	return n.mailer.SendLowStockAlert(n.to, branchName, []email.StockLine{{
		Name:         alert.Name,
		Unit:         alert.Unit,
		CurrentStock: alert.CurrentStock.String(),
		ReorderLevel: alert.ReorderLevel.String(),
	}})
}
