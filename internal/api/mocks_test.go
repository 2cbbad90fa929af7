package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"github.com/trogers1052/paisabuddy/internal/budget"
	"github.com/trogers1052/paisabuddy/internal/models"
	"github.com/trogers1052/paisabuddy/internal/portfolio"
)

// MockStocks is a mock implementation of StockStore
type MockStocks struct {
	mock.Mock
}

func (m *MockStocks) GetAllStocks(ctx context.Context) ([]*models.Stock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Stock), args.Error(1)
}

func (m *MockStocks) GetStockBySymbol(ctx context.Context, symbol string) (*models.Stock, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

// MockTrader is a mock implementation of Trader
type MockTrader struct {
	mock.Mock
}

func (m *MockTrader) Buy(ctx context.Context, req portfolio.TradeRequest) (*portfolio.TradeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.TradeResult), args.Error(1)
}

func (m *MockTrader) Sell(ctx context.Context, req portfolio.TradeRequest) (*portfolio.TradeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.TradeResult), args.Error(1)
}

func (m *MockTrader) Summary(ctx context.Context, portfolioID int64) (*models.PortfolioSummary, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PortfolioSummary), args.Error(1)
}

func (m *MockTrader) History(ctx context.Context, portfolioID int64, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, portfolioID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockPrices is a mock implementation of PriceRefresher and QuoteSource
type MockPrices struct {
	mock.Mock
}

func (m *MockPrices) Refresh(ctx context.Context) ([]models.PriceQuote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriceQuote), args.Error(1)
}

func (m *MockPrices) GetQuote(ctx context.Context, symbol string) (*models.PriceQuote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceQuote), args.Error(1)
}

func (m *MockPrices) AllQuotes(ctx context.Context) ([]models.PriceQuote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriceQuote), args.Error(1)
}

// MockBudget is a mock implementation of Budget
type MockBudget struct {
	mock.Mock
}

func (m *MockBudget) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockBudget) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockBudget) AddTransaction(ctx context.Context, in budget.TransactionInput) (*models.BudgetTransaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BudgetTransaction), args.Error(1)
}

func (m *MockBudget) ListTransactions(ctx context.Context) ([]*models.BudgetTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BudgetTransaction), args.Error(1)
}

func (m *MockBudget) Overview(ctx context.Context) (*budget.Overview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Overview), args.Error(1)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
