// Package seeder loads sample stocks and default budget categories into an
// empty store.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// SampleStock defines a stock to be seeded
type SampleStock struct {
	Symbol string
	Name   string
	Price  string
}

// SampleStocks are inserted when no stock exists
var SampleStocks = []SampleStock{
	{Symbol: "RELIANCE", Name: "Reliance Industries", Price: "2500.00"},
	{Symbol: "TCS", Name: "Tata Consultancy Services", Price: "3200.00"},
	{Symbol: "INFY", Name: "Infosys", Price: "1500.00"},
	{Symbol: "HDFCBANK", Name: "HDFC Bank", Price: "1600.00"},
	{Symbol: "ICICIBANK", Name: "ICICI Bank", Price: "900.00"},
}

// DefaultCategories are inserted when no category exists
var DefaultCategories = []string{"Salary", "Food", "Rent", "Transport", "Entertainment"}

// Store is the persistence the seeder needs
type Store interface {
	CountStocks(ctx context.Context) (int, error)
	SaveStock(ctx context.Context, s *models.Stock) error
	CountCategories(ctx context.Context) (int, error)
	CreateCategory(ctx context.Context, c *models.Category) error
}

// Result reports what a Seed call inserted
type Result struct {
	Stocks     int
	Categories int
}

// Seeder handles seeding of sample data
type Seeder struct {
	store  Store
	logger *slog.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(store Store, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, logger: logger}
}

// Seed inserts sample stocks and default categories into empty tables
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	stocks, err := s.SeedStocks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.SeedCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Stocks: stocks, Categories: categories}, nil
}

// SeedStocks inserts SampleStocks when the stock table is empty
func (s *Seeder) SeedStocks(ctx context.Context) (int, error) {
	n, err := s.store.CountStocks(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, sample := range SampleStocks {
		stock := &models.Stock{
			Symbol:       sample.Symbol,
			Name:         sample.Name,
			CurrentPrice: decimal.RequireFromString(sample.Price),
		}
		if err := s.store.SaveStock(ctx, stock); err != nil {
			return 0, fmt.Errorf("failed to seed stock %s: %w", sample.Symbol, err)
		}
	}

	s.logger.InfoContext(ctx, "seeded sample stocks", slog.Int("count", len(SampleStocks)))
	return len(SampleStocks), nil
}

// SeedCategories inserts DefaultCategories when no category exists
func (s *Seeder) SeedCategories(ctx context.Context) (int, error) {
	n, err := s.store.CountCategories(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, name := range DefaultCategories {
		if err := s.store.CreateCategory(ctx, &models.Category{Name: name}); err != nil {
			return 0, fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}

	s.logger.InfoContext(ctx, "seeded budget categories", slog.Int("count", len(DefaultCategories)))
	return len(DefaultCategories), nil
}
