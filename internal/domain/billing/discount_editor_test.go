package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

func TestDiscountEditor_ApplyFlow(t *testing.T) {
	persisted := DiscountSpec{Type: enum.DiscountTypeFixed, Value: pct("50"), Reason: "loyalty"}
	e := NewDiscountEditor(persisted)
	require.Equal(t, EditorViewing, e.State())

	require.NoError(t, e.Begin())
	assert.Equal(t, persisted, e.Draft())

	draft := DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("10"), Reason: "manager"}
	require.NoError(t, e.SetDraft(draft))

	preview, err := e.Preview(oneLine(1000), []ChargeRule{vat("13")})
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(1030), preview.Total)
	assert.Equal(t, persisted, e.Persisted(), "draft must not touch persisted values")

	submitted, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, draft, submitted)
	assert.Equal(t, EditorApplying, e.State())

	server := DiscountSpec{Type: enum.DiscountTypePercentage, Value: pct("10.00"), Reason: "manager"}
	require.NoError(t, e.Confirm(server))
	assert.Equal(t, EditorViewing, e.State())
	assert.Equal(t, server, e.Persisted())
	assert.Equal(t, DiscountSpec{}, e.Draft())
}

func TestDiscountEditor_FailReturnsToEditing(t *testing.T) {
	e := NewDiscountEditor(NoDiscount)
	require.NoError(t, e.Begin())
	draft := DiscountSpec{Type: enum.DiscountTypeFixed, Value: pct("5")}
	require.NoError(t, e.SetDraft(draft))
	_, err := e.Submit()
	require.NoError(t, err)

	require.NoError(t, e.Fail())
	assert.Equal(t, EditorEditing, e.State())
	assert.Equal(t, draft, e.Draft())
	assert.Equal(t, NoDiscount, e.Persisted())
}

func TestDiscountEditor_Cancel(t *testing.T) {
	e := NewDiscountEditor(NoDiscount)
	require.NoError(t, e.Begin())
	require.NoError(t, e.SetDraft(DiscountSpec{Type: enum.DiscountTypeFixed, Value: pct("5")}))

	require.NoError(t, e.Cancel())
	assert.Equal(t, EditorViewing, e.State())
	assert.Equal(t, NoDiscount, e.Persisted())
	assert.Equal(t, DiscountSpec{}, e.Draft())
}

func TestDiscountEditor_InvalidTransitions(t *testing.T) {
	e := NewDiscountEditor(NoDiscount)

	assert.ErrorIs(t, e.SetDraft(NoDiscount), ErrInvalidTransition)
	_, err := e.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, e.Confirm(NoDiscount), ErrInvalidTransition)
	assert.ErrorIs(t, e.Fail(), ErrInvalidTransition)
	assert.ErrorIs(t, e.Cancel(), ErrInvalidTransition)
	_, err = e.Preview(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, e.Begin())
	assert.ErrorIs(t, e.Begin(), ErrInvalidTransition)

	_, err = e.Submit()
	require.NoError(t, err)
	assert.ErrorIs(t, e.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, e.SetDraft(NoDiscount), ErrInvalidTransition)
}
