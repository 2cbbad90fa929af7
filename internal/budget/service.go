// Package budget tracks income and expenses by category.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidType        = errors.New("transaction type must be income or expense")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidName        = errors.New("category name must be 1 to 100 characters")
	ErrInvalidDescription = errors.New("description must be 1 to 255 characters")
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 255
)

// Store persists categories and budget transactions
type Store interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetAllCategories(ctx context.Context) ([]*models.Category, error)
	CreateBudgetTransaction(ctx context.Context, t *models.BudgetTransaction) error
	GetAllBudgetTransactions(ctx context.Context) ([]*models.BudgetTransaction, error)
	GetBudgetSummary(ctx context.Context) (*models.BudgetSummary, error)
}

// TransactionInput is a budget line as submitted by a user
type TransactionInput struct {
	Amount          decimal.Decimal
	Description     string
	Date            time.Time
	CategoryID      int64
	TransactionType string
}

// Overview is everything the budget page shows
type Overview struct {
	Summary      *models.BudgetSummary       `json:"summary"`
	Transactions []*models.BudgetTransaction `json:"transactions"`
	Categories   []*models.Category          `json:"categories"`
}

// Service handles budget operations
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a new Service
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateCategory adds a category
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}

	c := &models.Category{Name: name}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.store.GetAllCategories(ctx)
}

// AddTransaction validates and records an income or expense
func (s *Service) AddTransaction(ctx context.Context, in TransactionInput) (*models.BudgetTransaction, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	txType := strings.ToLower(strings.TrimSpace(in.TransactionType))
	if txType != models.BudgetTypeIncome && txType != models.BudgetTypeExpense {
		return nil, ErrInvalidType
	}

	description := strings.TrimSpace(in.Description)
	if description == "" || utf8.RuneCountInString(description) > maxDescriptionLength {
		return nil, ErrInvalidDescription
	}

	category, err := s.store.GetCategoryByID(ctx, in.CategoryID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrCategoryNotFound, in.CategoryID)
	}
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	y, m, d := date.Date()

	t := &models.BudgetTransaction{
		Amount:          in.Amount.RoundBank(2),
		Description:     description,
		Date:            time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		CategoryID:      category.ID,
		CategoryName:    category.Name,
		TransactionType: txType,
	}
	if err := s.store.CreateBudgetTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTransactions returns all transactions, newest first
func (s *Service) ListTransactions(ctx context.Context) ([]*models.BudgetTransaction, error) {
	return s.store.GetAllBudgetTransactions(ctx)
}

// Summary returns total income, total expenses and the balance
func (s *Service) Summary(ctx context.Context) (*models.BudgetSummary, error) {
	return s.store.GetBudgetSummary(ctx)
}

// Overview gathers summary, transactions and categories
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	summary, err := s.store.GetBudgetSummary(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.store.GetAllBudgetTransactions(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}

	if transactions == nil {
		transactions = []*models.BudgetTransaction{}
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return &Overview{Summary: summary, Transactions: transactions, Categories: categories}, nil
}
