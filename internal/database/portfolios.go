package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// GetOrCreatePortfolio returns the portfolio with the given id, creating it
// with openingBalance if it does not exist. Inside a transaction the row stays
// locked until commit.
func (db *DB) GetOrCreatePortfolio(ctx context.Context, id int64, openingBalance decimal.Decimal) (*models.Portfolio, error) {
	insert := `
		INSERT INTO portfolios (id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := db.q().ExecContext(ctx, insert, id, openingBalance, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	query := `
		SELECT id, balance, created_at, updated_at
		FROM portfolios
		WHERE id = $1
		FOR UPDATE
	`
	var p models.Portfolio
	err := db.q().QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Balance, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return &p, nil
}

// GetPortfolio retrieves a portfolio by ID
func (db *DB) GetPortfolio(ctx context.Context, id int64) (*models.Portfolio, error) {
	query := `SELECT id, balance, created_at, updated_at FROM portfolios WHERE id = $1`
	var p models.Portfolio
	err := db.q().QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Balance, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("portfolio %w: %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return &p, nil
}

// UpdatePortfolioBalance sets the cash balance of a portfolio
func (db *DB) UpdatePortfolioBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := `UPDATE portfolios SET balance = $2, updated_at = $3 WHERE id = $1`
	result, err := db.q().ExecContext(ctx, query, id, balance, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update portfolio balance: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("portfolio %w: %d", models.ErrNotFound, id)
	}
	return nil
}
