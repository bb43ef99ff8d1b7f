package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockk_backend/models"
)

func seedTickers(t *testing.T, repo *TickerRepository) {
	t.Helper()
	ctx := context.Background()
	for _, fixture := range []models.Ticker{
		{Ticker: "VNM", Exchange: models.ExchangeHOSE, Type: models.TickerTypeVNStock},
		{Ticker: "VND", Exchange: models.ExchangeHOSE, Type: models.TickerTypeVNStock},
		{Ticker: "VNR", Exchange: models.ExchangeHNX, Type: models.TickerTypeVNStock},
		{Ticker: "BTC", Exchange: "", Type: models.TickerTypeCrypto},
	} {
		ticker := fixture
		require.NoError(t, repo.Create(ctx, &ticker))
	}
}

func TestTickerRepository_GetByTicker(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTickerRepository(db)
	seedTickers(t, repo)
	ctx := context.Background()

	got, err := repo.GetByTicker(ctx, "VNM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ExchangeHOSE, got.Exchange)

	got, err = repo.GetByTicker(ctx, "XXX")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTickerRepository_SearchByTicker(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTickerRepository(db)
	seedTickers(t, repo)
	ctx := context.Background()

	t.Run("prefix match ordered by ticker", func(t *testing.T) {
		got, err := repo.SearchByTicker(ctx, "VN", 10, "", "")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "VND", got[0].Ticker)
		assert.Equal(t, "VNM", got[1].Ticker)
		assert.Equal(t, "VNR", got[2].Ticker)
	})

	t.Run("limit caps results", func(t *testing.T) {
		got, err := repo.SearchByTicker(ctx, "VN", 2, "", "")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("exchange filter", func(t *testing.T) {
		got, err := repo.SearchByTicker(ctx, "VN", 10, "", models.ExchangeHNX)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "VNR", got[0].Ticker)
	})

	t.Run("type filter", func(t *testing.T) {
		got, err := repo.SearchByTicker(ctx, "B", 10, models.TickerTypeCrypto, "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "BTC", got[0].Ticker)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := repo.SearchByTicker(ctx, "ZZZ", 10, "", "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestTickerRepository_AllSymbols(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTickerRepository(db)
	seedTickers(t, repo)

	symbols, err := repo.AllSymbols(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"VNM", "VND", "VNR", "BTC"}, symbols)
}

func TestIndustryRepository_GetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIndustryRepository(db)
	ctx := context.Background()

	industry, created, err := repo.GetOrCreate(ctx, 8600, "Thực phẩm", "Food Producers")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(8600), industry.ID)

	// Idempotent on the provider-assigned id
	again, created, err := repo.GetOrCreate(ctx, 8600, "changed", "changed")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Thực phẩm", again.Name)
}
