package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/paisabuddy/internal/models"
)

func TestRunInTx_Commit(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE portfolios SET balance").
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = db.RunInTx(context.Background(), func(tx *DB) error {
		return tx.UpdatePortfolioBalance(context.Background(), 1, decimal.RequireFromString("90000.00"))
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE portfolios SET balance").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err = db.RunInTx(context.Background(), func(tx *DB) error {
		if err := tx.UpdatePortfolioBalance(context.Background(), 1, decimal.RequireFromString("1.00")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_NotFoundRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE stocks SET current_price").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = db.RunInTx(context.Background(), func(tx *DB) error {
		return tx.UpdateStockPrice(context.Background(), "NOPE", decimal.RequireFromString("1.00"), time.Now())
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_BeginFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err = db.RunInTx(context.Background(), func(tx *DB) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_CommitFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err = db.RunInTx(context.Background(), func(tx *DB) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectCommit()

	var n int
	err = db.RunInTx(context.Background(), func(tx *DB) error {
		return tx.RunInTx(context.Background(), func(inner *DB) error {
			var err error
			n, err = inner.CountStocks(context.Background())
			return err
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStockBySymbol_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectQuery("SELECT id, symbol, name, current_price").
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "symbol", "name", "current_price", "last_updated", "created_at"}))

	_, err = db.GetStockBySymbol(context.Background(), "NOPE")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
