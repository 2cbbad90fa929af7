package database

import (
	"context"
	"fmt"

	"github.com/trogers1052/paisabuddy/internal/models"
)

// CreateBudgetTransaction inserts an income or expense line
func (db *DB) CreateBudgetTransaction(ctx context.Context, t *models.BudgetTransaction) error {
	query := `
		INSERT INTO budget_transactions (amount, description, date, category_id, transaction_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := db.q().QueryRowContext(ctx, query,
		t.Amount, t.Description, t.Date, t.CategoryID, t.TransactionType,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create budget transaction: %w", err)
	}
	return nil
}

// GetAllBudgetTransactions retrieves every budget transaction, newest date first
func (db *DB) GetAllBudgetTransactions(ctx context.Context) ([]*models.BudgetTransaction, error) {
	query := `
		SELECT t.id, t.amount, t.description, t.date, t.category_id, c.name, t.transaction_type
		FROM budget_transactions t
		JOIN categories c ON c.id = t.category_id
		ORDER BY t.date DESC, t.id DESC
	`
	rows, err := db.q().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.BudgetTransaction
	for rows.Next() {
		var t models.BudgetTransaction
		err := rows.Scan(&t.ID, &t.Amount, &t.Description, &t.Date, &t.CategoryID, &t.CategoryName, &t.TransactionType)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget transactions: %w", err)
	}
	return transactions, nil
}

// GetBudgetSummary totals income and expenses. Balance is income minus expenses.
func (db *DB) GetBudgetSummary(ctx context.Context) (*models.BudgetSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0) AS income,
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0) AS expenses
		FROM budget_transactions
	`
	var s models.BudgetSummary
	if err := db.q().QueryRowContext(ctx, query).Scan(&s.Income, &s.Expenses); err != nil {
		return nil, fmt.Errorf("failed to get budget summary: %w", err)
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return &s, nil
}
