package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/paisabuddy/internal/models"
)

const holdingColumns = `
	h.id, h.portfolio_id, h.stock_id, h.quantity, h.avg_buy_price, h.cost_basis, h.created_at, h.updated_at,
	s.symbol, s.name, s.current_price
`

// CreateHolding inserts a new holding
func (db *DB) CreateHolding(ctx context.Context, h *models.Holding) error {
	query := `
		INSERT INTO holdings (portfolio_id, stock_id, quantity, avg_buy_price, cost_basis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`
	now := time.Now()
	err := db.q().QueryRowContext(ctx, query,
		h.PortfolioID, h.StockID, h.Quantity, h.AvgBuyPrice, h.CostBasis, now,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}
	h.CreatedAt = now
	h.UpdatedAt = now
	return nil
}

// GetHolding retrieves the holding of a portfolio in a stock
func (db *DB) GetHolding(ctx context.Context, portfolioID, stockID int64) (*models.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings h
		JOIN stocks s ON s.id = h.stock_id
		WHERE h.portfolio_id = $1 AND h.stock_id = $2
	`
	var h models.Holding
	err := db.q().QueryRowContext(ctx, query, portfolioID, stockID).Scan(
		&h.ID, &h.PortfolioID, &h.StockID, &h.Quantity, &h.AvgBuyPrice, &h.CostBasis, &h.CreatedAt, &h.UpdatedAt,
		&h.Symbol, &h.Name, &h.CurrentPrice,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("holding %w: portfolio %d stock %d", models.ErrNotFound, portfolioID, stockID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	return &h, nil
}

// GetHoldingsByPortfolio retrieves all holdings of a portfolio ordered by symbol
func (db *DB) GetHoldingsByPortfolio(ctx context.Context, portfolioID int64) ([]*models.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings h
		JOIN stocks s ON s.id = h.stock_id
		WHERE h.portfolio_id = $1
		ORDER BY s.symbol ASC
	`
	rows, err := db.q().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*models.Holding
	for rows.Next() {
		var h models.Holding
		err := rows.Scan(
			&h.ID, &h.PortfolioID, &h.StockID, &h.Quantity, &h.AvgBuyPrice, &h.CostBasis, &h.CreatedAt, &h.UpdatedAt,
			&h.Symbol, &h.Name, &h.CurrentPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return holdings, nil
}

// UpdateHolding stores a new quantity, average price and cost basis
func (db *DB) UpdateHolding(ctx context.Context, h *models.Holding) error {
	query := `
		UPDATE holdings SET quantity = $2, avg_buy_price = $3, cost_basis = $4, updated_at = $5
		WHERE id = $1
	`
	now := time.Now()
	result, err := db.q().ExecContext(ctx, query, h.ID, h.Quantity, h.AvgBuyPrice, h.CostBasis, now)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("holding %w: %d", models.ErrNotFound, h.ID)
	}
	h.UpdatedAt = now
	return nil
}

// DeleteHolding removes a holding by ID
func (db *DB) DeleteHolding(ctx context.Context, id int64) error {
	result, err := db.q().ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("holding %w: %d", models.ErrNotFound, id)
	}
	return nil
}
