package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget transaction type constants
const (
	BudgetTypeIncome  = "income"
	BudgetTypeExpense = "expense"
)

// Category groups budget transactions
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BudgetTransaction is an income or expense line of the budget tracker
type BudgetTransaction struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	CategoryID      int64           `json:"category_id"`
	CategoryName    string          `json:"category_name,omitempty"`
	TransactionType string          `json:"transaction_type"`
}

// BudgetSummary holds the totals of all budget transactions
type BudgetSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}
