package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// Event types.
const (
	EventPaymentRecorded = "payment.recorded"
	EventStockLow        = "stock.low"
)

// PaymentRecorded is published after a payment commits.
type PaymentRecorded struct {
	Type         string      `json:"type"`
	PaymentID    uuid.UUID   `json:"payment_id"`
	ReceiptNo    string      `json:"receipt_no"`
	BranchID     uuid.UUID   `json:"branch_id"`
	BillableType string      `json:"billable_type"`
	BillableID   uuid.UUID   `json:"billable_id"`
	Reference    string      `json:"reference"`
	Amount       money.Money `json:"amount"`
	PaymentType  string      `json:"payment_type"`
	Paid         money.Money `json:"paid_amount"`
	Remaining    money.Money `json:"remaining_amount"`
	OccurredAt   time.Time   `json:"occurred_at"`
}

// StockLow is published when an item first drops to its reorder level.
type StockLow struct {
	Type         string          `json:"type"`
	ItemID       uuid.UUID       `json:"item_id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// NewStockLow converts a monitor alert to its event
func NewStockLow(a entity.StockAlert) StockLow {
	return StockLow{
		Type:         EventStockLow,
		ItemID:       a.ItemID,
		BranchID:     a.BranchID,
		Name:         a.Name,
		Unit:         a.Unit,
		CurrentStock: a.CurrentStock,
		ReorderLevel: a.ReorderLevel,
		OccurredAt:   a.DetectedAt,
	}
}

// Publisher emits domain events. Publishing is best effort: callers log failures
// and never roll back business state because of them.
type Publisher interface {
	PublishPayment(ctx context.Context, ev PaymentRecorded) error
	PublishStockLow(ctx context.Context, ev StockLow) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to one topic per event family, keyed so that
// all events of one bill (or one item) land on the same partition.
type KafkaPublisher struct {
	payments MessageWriter
	stock    MessageWriter
}

// NewKafkaWriter builds a writer for a topic on the given brokers
func NewKafkaWriter(brokers []string, topic string, timeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           timeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher creates a publisher over the two topic writers
func NewKafkaPublisher(payments, stock MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{payments: payments, stock: stock}
}

func (p *KafkaPublisher) PublishPayment(ctx context.Context, ev PaymentRecorded) error {
	ev.Type = EventPaymentRecorded
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.payments.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.BillableID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventPaymentRecorded)},
		},
	})
}

func (p *KafkaPublisher) PublishStockLow(ctx context.Context, ev StockLow) error {
	ev.Type = EventStockLow
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.stock.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ItemID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventStockLow)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	err := p.payments.Close()
	if serr := p.stock.Close(); err == nil {
		err = serr
	}
	return err
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPayment(context.Context, PaymentRecorded) error { return nil }
func (NoopPublisher) PublishStockLow(context.Context, StockLow) error       { return nil }
func (NoopPublisher) Close() error                                          { return nil }
