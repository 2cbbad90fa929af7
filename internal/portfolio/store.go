package portfolio

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// Ledger is the set of store operations a single trade needs. Lookups that
// match nothing return an error wrapping models.ErrNotFound.
type Ledger interface {
	GetOrCreatePortfolio(ctx context.Context, id int64, openingBalance decimal.Decimal) (*models.Portfolio, error)
	UpdatePortfolioBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	GetStockBySymbol(ctx context.Context, symbol string) (*models.Stock, error)
	GetHolding(ctx context.Context, portfolioID, stockID int64) (*models.Holding, error)
	CreateHolding(ctx context.Context, h *models.Holding) error
	UpdateHolding(ctx context.Context, h *models.Holding) error
	DeleteHolding(ctx context.Context, id int64) error
	CreateLedgerEntry(ctx context.Context, e *models.LedgerEntry) error
	LedgerEntryExistsByOrderID(ctx context.Context, orderID string) (bool, error)
}

// Store is the persistent ledger. Atomically runs fn so that either every
// write made through the Ledger it receives is kept, or none is.
type Store interface {
	Ledger
	GetPortfolio(ctx context.Context, id int64) (*models.Portfolio, error)
	GetHoldingsByPortfolio(ctx context.Context, portfolioID int64) ([]*models.Holding, error)
	GetLedgerEntries(ctx context.Context, portfolioID int64, limit int) ([]*models.LedgerEntry, error)
	Atomically(ctx context.Context, fn func(Ledger) error) error
}

// TradeNotifier is told about every committed trade
type TradeNotifier interface {
	TradeExecuted(ctx context.Context, entry *models.LedgerEntry, balance decimal.Decimal) error
}
