package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// SaveStock inserts a stock or updates the existing one with the same symbol
func (db *DB) SaveStock(ctx context.Context, s *models.Stock) error {
	query := `
		INSERT INTO stocks (symbol, name, current_price, last_updated, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			current_price = EXCLUDED.current_price,
			last_updated = EXCLUDED.last_updated
		RETURNING id, created_at
	`
	now := time.Now()
	lastUpdated := s.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = now
	}

	err := db.q().QueryRowContext(ctx, query,
		s.Symbol, s.Name, s.CurrentPrice, lastUpdated, now,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save stock: %w", err)
	}
	s.LastUpdated = lastUpdated
	return nil
}

// GetStockBySymbol retrieves a stock by its symbol
func (db *DB) GetStockBySymbol(ctx context.Context, symbol string) (*models.Stock, error) {
	query := `
		SELECT id, symbol, name, current_price, last_updated, created_at
		FROM stocks
		WHERE symbol = $1
	`
	var s models.Stock
	err := db.q().QueryRowContext(ctx, query, symbol).Scan(
		&s.ID, &s.Symbol, &s.Name, &s.CurrentPrice, &s.LastUpdated, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stock %w: %s", models.ErrNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return &s, nil
}

// GetAllStocks retrieves every stock ordered by symbol
func (db *DB) GetAllStocks(ctx context.Context) ([]*models.Stock, error) {
	query := `
		SELECT id, symbol, name, current_price, last_updated, created_at
		FROM stocks
		ORDER BY symbol ASC
	`
	rows, err := db.q().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []*models.Stock
	for rows.Next() {
		var s models.Stock
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Name, &s.CurrentPrice, &s.LastUpdated, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stocks: %w", err)
	}
	return stocks, nil
}

// UpdateStockPrice sets the current price of a stock
func (db *DB) UpdateStockPrice(ctx context.Context, symbol string, price decimal.Decimal, at time.Time) error {
	query := `UPDATE stocks SET current_price = $2, last_updated = $3 WHERE symbol = $1`
	result, err := db.q().ExecContext(ctx, query, symbol, price, at)
	if err != nil {
		return fmt.Errorf("failed to update stock price: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("stock %w: %s", models.ErrNotFound, symbol)
	}
	return nil
}

// CountStocks returns the number of stocks
func (db *DB) CountStocks(ctx context.Context) (int, error) {
	var n int
	if err := db.q().QueryRowContext(ctx, `SELECT COUNT(*) FROM stocks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stocks: %w", err)
	}
	return n, nil
}
