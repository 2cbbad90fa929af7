package database

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/paisabuddy/internal/models"
)

func TestBudgetRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)
	ctx := context.Background()

	category := func(t *testing.T, name string) *models.Category {
		t.Helper()
		c := &models.Category{Name: name}
		require.NoError(t, testDB.CreateCategory(ctx, c))
		return c
	}

	t.Run("categories", func(t *testing.T) {
		testDB.TruncateAll(t)

		rent := category(t, "Rent")
		category(t, "Food")
		assert.NotZero(t, rent.ID)

		got, err := testDB.GetCategoryByID(ctx, rent.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rent", got.Name)

		all, err := testDB.GetAllCategories(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Food", all[0].Name)

		n, err := testDB.CountCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = testDB.GetCategoryByID(ctx, 999)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("summary of an empty budget is zero", func(t *testing.T) {
		testDB.TruncateAll(t)

		s, err := testDB.GetBudgetSummary(ctx)
		require.NoError(t, err)
		assert.True(t, s.Income.IsZero())
		assert.True(t, s.Expenses.IsZero())
		assert.True(t, s.Balance.IsZero())
	})

	t.Run("transactions and summary", func(t *testing.T) {
		testDB.TruncateAll(t)

		salary := category(t, "Salary")
		food := category(t, "Food")

		lines := []*models.BudgetTransaction{
			{Amount: decimal.RequireFromString("50000.00"), Description: "March salary", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), CategoryID: salary.ID, TransactionType: models.BudgetTypeIncome},
			{Amount: decimal.RequireFromString("1250.50"), Description: "Groceries", Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), CategoryID: food.ID, TransactionType: models.BudgetTypeExpense},
			{Amount: decimal.RequireFromString("300.00"), Description: "Lunch", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), CategoryID: food.ID, TransactionType: models.BudgetTypeExpense},
		}
		for _, l := range lines {
			require.NoError(t, testDB.CreateBudgetTransaction(ctx, l))
			assert.NotZero(t, l.ID)
		}

		all, err := testDB.GetAllBudgetTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Groceries", all[0].Description)
		assert.Equal(t, "Food", all[0].CategoryName)
		assert.Equal(t, "Lunch", all[1].Description)
		assert.Equal(t, "March salary", all[2].Description)

		s, err := testDB.GetBudgetSummary(ctx)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("50000.00").Equal(s.Income))
		assert.True(t, decimal.RequireFromString("1550.50").Equal(s.Expenses))
		assert.True(t, decimal.RequireFromString("48449.50").Equal(s.Balance))
	})

	t.Run("non-positive amount rejected by schema", func(t *testing.T) {
		testDB.TruncateAll(t)

		food := category(t, "Food")
		err := testDB.CreateBudgetTransaction(ctx, &models.BudgetTransaction{
			Amount: decimal.Zero, Description: "free", Date: time.Now(), CategoryID: food.ID, TransactionType: models.BudgetTypeExpense,
		})
		assert.Error(t, err)
	})
}
