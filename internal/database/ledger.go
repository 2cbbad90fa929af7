package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/paisabuddy/internal/models"
)

// CreateLedgerEntry appends an executed trade to the ledger
func (db *DB) CreateLedgerEntry(ctx context.Context, e *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (
			portfolio_id, stock_id, symbol, trade_type, quantity, price, total, order_id, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	executedAt := e.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}

	err := db.q().QueryRowContext(ctx, query,
		e.PortfolioID, e.StockID, e.Symbol, e.TradeType, e.Quantity, e.Price, e.Total,
		nullString(e.OrderID), executedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	e.ExecutedAt = executedAt
	return nil
}

// LedgerEntryExistsByOrderID checks if an order was already executed
func (db *DB) LedgerEntryExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE order_id = $1)`
	var exists bool
	if err := db.q().QueryRowContext(ctx, query, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ledger entry existence: %w", err)
	}
	return exists, nil
}

// GetLedgerEntries retrieves the latest ledger entries of a portfolio, newest first
func (db *DB) GetLedgerEntries(ctx context.Context, portfolioID int64, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, portfolio_id, stock_id, symbol, trade_type, quantity, price, total, order_id, executed_at
		FROM ledger_entries
		WHERE portfolio_id = $1
		ORDER BY executed_at DESC, id DESC
		LIMIT $2
	`
	rows, err := db.q().QueryContext(ctx, query, portfolioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var orderID sql.NullString
		err := rows.Scan(
			&e.ID, &e.PortfolioID, &e.StockID, &e.Symbol, &e.TradeType,
			&e.Quantity, &e.Price, &e.Total, &orderID, &e.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if orderID.Valid {
			e.OrderID = orderID.String
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}
