package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

func TestInventoryRepository_Adjust(t *testing.T) {
	db := openTestDB(t)
	ctx, branchID := branchCtx(t, db)
	repo := NewInventoryRepository(db)

	item := &entity.InventoryItem{
		BranchID:     branchID,
		Name:         "Basmati rice",
		Unit:         "kg",
		CurrentStock: decimal.NewFromInt(20),
		ReorderLevel: decimal.NewFromInt(5),
	}
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.Adjust(ctx, item.ID, decimal.NewFromInt(-16), &entity.StockAdjustment{Reason: "dinner service"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CurrentStock.Equal(decimal.NewFromInt(4)))
	assert.True(t, got.IsLow())

	_, err = repo.Adjust(ctx, item.ID, decimal.NewFromInt(-10), &entity.StockAdjustment{})
	assert.ErrorIs(t, err, domainRepo.ErrInsufficientStock)

	var adjustments int64
	db.Model(&entity.StockAdjustment{}).Where("item_id = ?", item.ID).Count(&adjustments)
	assert.EqualValues(t, 1, adjustments)

	missing, err := repo.Adjust(ctx, uuid.New(), decimal.NewFromInt(1), &entity.StockAdjustment{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInventoryRepository_LowStock(t *testing.T) {
	db := openTestDB(t)
	ctx, branchID := branchCtx(t, db)
	repo := NewInventoryRepository(db)

	for _, it := range []entity.InventoryItem{
		{Name: "Cooking oil", Unit: "l", CurrentStock: decimal.NewFromInt(2), ReorderLevel: decimal.NewFromInt(5)},
		{Name: "Flour", Unit: "kg", CurrentStock: decimal.NewFromInt(50), ReorderLevel: decimal.NewFromInt(10)},
		{Name: "Sugar", Unit: "kg", CurrentStock: decimal.NewFromInt(10), ReorderLevel: decimal.NewFromInt(10)},
	} {
		it.BranchID = branchID
		require.NoError(t, repo.Create(ctx, &it))
	}

	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Cooking oil", low[0].Name)
	assert.Equal(t, "Sugar", low[1].Name)

	items, total, err := repo.List(ctx, &domainRepo.InventoryFilterParams{Pagination: pagination.DefaultPagination(), Search: "FLO"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Flour", items[0].Name)
}
