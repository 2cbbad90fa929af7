package database

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/paisabuddy/internal/models"
	"github.com/trogers1052/paisabuddy/internal/pricing"
)

func TestStocksRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)
	ctx := context.Background()

	t.Run("SaveStock creates new stock", func(t *testing.T) {
		testDB.TruncateAll(t)

		stock := &models.Stock{
			Symbol:       "RELIANCE",
			Name:         "Reliance Industries",
			CurrentPrice: decimal.RequireFromString("2500.00"),
		}

		err := testDB.SaveStock(ctx, stock)
		require.NoError(t, err)
		assert.NotZero(t, stock.ID)
		assert.False(t, stock.LastUpdated.IsZero())
	})

	t.Run("SaveStock updates existing stock", func(t *testing.T) {
		testDB.TruncateAll(t)

		first := testDB.seedStock(t, "TCS", "Tata Consultancy", "3200.00")

		second := &models.Stock{
			Symbol:       "TCS",
			Name:         "Tata Consultancy Services",
			CurrentPrice: decimal.RequireFromString("3210.50"),
		}
		require.NoError(t, testDB.SaveStock(ctx, second))
		assert.Equal(t, first.ID, second.ID)

		got, err := testDB.GetStockBySymbol(ctx, "TCS")
		require.NoError(t, err)
		assert.Equal(t, "Tata Consultancy Services", got.Name)
		assert.True(t, decimal.RequireFromString("3210.50").Equal(got.CurrentPrice))
	})

	t.Run("GetStockBySymbol returns ErrNotFound", func(t *testing.T) {
		testDB.TruncateAll(t)

		_, err := testDB.GetStockBySymbol(ctx, "NOPE")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("GetAllStocks orders by symbol", func(t *testing.T) {
		testDB.TruncateAll(t)

		testDB.seedStock(t, "TCS", "Tata Consultancy Services", "3200.00")
		testDB.seedStock(t, "INFY", "Infosys", "1500.00")
		testDB.seedStock(t, "RELIANCE", "Reliance Industries", "2500.00")

		stocks, err := testDB.GetAllStocks(ctx)
		require.NoError(t, err)
		require.Len(t, stocks, 3)
		assert.Equal(t, "INFY", stocks[0].Symbol)
		assert.Equal(t, "RELIANCE", stocks[1].Symbol)
		assert.Equal(t, "TCS", stocks[2].Symbol)
	})

	t.Run("UpdateStockPrice", func(t *testing.T) {
		testDB.TruncateAll(t)

		testDB.seedStock(t, "INFY", "Infosys", "1500.00")
		at := time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC)

		err := testDB.UpdateStockPrice(ctx, "INFY", decimal.RequireFromString("1507.50"), at)
		require.NoError(t, err)

		got, err := testDB.GetStockBySymbol(ctx, "INFY")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1507.50").Equal(got.CurrentPrice))
		assert.True(t, at.Equal(got.LastUpdated.UTC()), "last_updated = %v", got.LastUpdated)
	})

	t.Run("UpdateStockPrice unknown symbol", func(t *testing.T) {
		testDB.TruncateAll(t)

		err := testDB.UpdateStockPrice(ctx, "NOPE", decimal.RequireFromString("1.00"), time.Now())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("CountStocks", func(t *testing.T) {
		testDB.TruncateAll(t)

		n, err := testDB.CountStocks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		testDB.seedStock(t, "INFY", "Infosys", "1500.00")
		testDB.seedStock(t, "TCS", "Tata Consultancy Services", "3200.00")

		n, err = testDB.CountStocks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("PriceStore rolls back a failed refresh", func(t *testing.T) {
		testDB.TruncateAll(t)

		testDB.seedStock(t, "INFY", "Infosys", "1500.00")
		store := NewPriceStore(testDB.DB)

		err := store.Atomically(ctx, func(p pricing.Prices) error {
			if err := p.UpdateStockPrice(ctx, "INFY", decimal.RequireFromString("1530.00"), time.Now()); err != nil {
				return err
			}
			return p.UpdateStockPrice(ctx, "MISSING", decimal.RequireFromString("1.00"), time.Now())
		})
		require.ErrorIs(t, err, models.ErrNotFound)

		got, err := testDB.GetStockBySymbol(ctx, "INFY")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1500.00").Equal(got.CurrentPrice))
	})
}
