package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/messaging"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

func testAlert() entity.StockAlert {
	return entity.StockAlert{
		ItemID:       uuid.New(),
		BranchID:     uuid.New(),
		Name:         "Cooking oil",
		Unit:         "l",
		CurrentStock: decimal.NewFromInt(2),
		ReorderLevel: decimal.NewFromInt(5),
		DetectedAt:   time.Now(),
	}
}

type memNotifications struct {
	created []entity.Notification
}

func (m *memNotifications) Create(_ context.Context, n *entity.Notification) error {
	m.created = append(m.created, *n)
	return nil
}

func (m *memNotifications) List(context.Context, bool, *pagination.PaginationParams) ([]entity.Notification, int64, error) {
	return m.created, int64(len(m.created)), nil
}

func (m *memNotifications) MarkRead(context.Context, uuid.UUID, time.Time) (bool, error) {
	return false, nil
}

type fakeSMS struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeSMS) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, f.err
}

func TestMultiContinuesAfterFailure(t *testing.T) {
	store := &memNotifications{}
	boom := errors.New("smtp down")
	var calls int

	m := NewMulti(zap.NewNop(),
		NotifierFunc(func(context.Context, entity.StockAlert) error {
			calls++
			return boom
		}),
		NewDBNotifier(store),
		NewEventNotifier(messaging.NoopPublisher{}),
	)

	alert := testAlert()
	err := m.Notify(context.Background(), alert)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	require.Len(t, store.created, 1)
	n := store.created[0]
	assert.Equal(t, entity.NotificationKindLowStock, n.Kind)
	assert.Equal(t, alert.BranchID, n.BranchID)
	assert.Equal(t, "Low stock: Cooking oil", n.Title)
	assert.Equal(t, alert.ItemID, *n.ReferenceID)
}

func TestSMSNotifier(t *testing.T) {
	api := &fakeSMS{}
	n := NewSMSNotifier(api, "+15550001111", "+254700000000", zap.NewNop())

	require.NoError(t, n.Notify(context.Background(), testAlert()))
	require.NotNil(t, api.params)
	assert.Equal(t, "+254700000000", *api.params.To)
	assert.Equal(t, "+15550001111", *api.params.From)
	assert.Contains(t, *api.params.Body, "Cooking oil is at 2 l")

	api.err = errors.New("unauthorized")
	assert.Error(t, n.Notify(context.Background(), testAlert()))
}
