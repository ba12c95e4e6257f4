package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishPayment(t *testing.T) {
	payments, stock := &recordingWriter{}, &recordingWriter{}
	p := NewKafkaPublisher(payments, stock)

	billableID := uuid.New()
	err := p.PublishPayment(context.Background(), PaymentRecorded{
		BillableType: "order",
		BillableID:   billableID,
		Amount:       money.FromCents(125050),
		Remaining:    money.Zero,
	})
	require.NoError(t, err)
	require.Len(t, payments.msgs, 1)
	assert.Empty(t, stock.msgs)

	msg := payments.msgs[0]
	assert.Equal(t, billableID.String(), string(msg.Key))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, EventPaymentRecorded, body["type"])
	assert.Equal(t, 1250.5, body["amount"])

	require.NoError(t, p.Close())
	assert.True(t, payments.closed)
	assert.True(t, stock.closed)
}

func TestKafkaPublisher_PublishStockLow(t *testing.T) {
	payments, stock := &recordingWriter{}, &recordingWriter{}
	p := NewKafkaPublisher(payments, stock)

	alert := entity.StockAlert{
		ItemID:       uuid.New(),
		Name:         "Cooking oil",
		Unit:         "l",
		CurrentStock: decimal.NewFromInt(2),
		ReorderLevel: decimal.NewFromInt(5),
		DetectedAt:   time.Now(),
	}
	require.NoError(t, p.PublishStockLow(context.Background(), NewStockLow(alert)))
	require.Len(t, stock.msgs, 1)
	assert.Equal(t, alert.ItemID.String(), string(stock.msgs[0].Key))
	assert.Equal(t, "event_type", stock.msgs[0].Headers[0].Key)
}
