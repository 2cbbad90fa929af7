package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// DefaultPortfolioID is used when a caller does not name a portfolio
const DefaultPortfolioID int64 = 1

// Limits of the ledger columns
var (
	MaxPrice   = decimal.RequireFromString("9999999999.99")
	MaxBalance = decimal.RequireFromString("999999999999.99")
)

// averagePlaces is the precision the average buy price is stored with
const averagePlaces = 8

// PricePolicy decides which price a trade executes at
type PricePolicy string

const (
	// PriceQuoted executes at the price supplied with the order
	PriceQuoted PricePolicy = "quoted"
	// PriceMarket executes at the stock's current price and ignores the quote
	PriceMarket PricePolicy = "market"
)

// ParsePricePolicy converts a config value to a PricePolicy
func ParsePricePolicy(s string) (PricePolicy, error) {
	switch PricePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriceQuoted:
		return PriceQuoted, nil
	case PriceMarket:
		return PriceMarket, nil
	}
	return "", fmt.Errorf("unknown price policy: %q", s)
}

// TradeRequest asks to buy or sell Quantity shares of Symbol
type TradeRequest struct {
	PortfolioID int64
	Symbol      string
	Quantity    int64
	Price       decimal.Decimal
	// OrderID makes the request idempotent when set
	OrderID string
}

// TradeResult is the outcome of an executed trade
type TradeResult struct {
	Entry    *models.LedgerEntry
	Balance  decimal.Decimal
	Position Position
}

// Options configures a Service
type Options struct {
	OpeningBalance decimal.Decimal
	PricePolicy    PricePolicy
	Notifier       TradeNotifier
	Logger         *slog.Logger
	Now            func() time.Time
}

// Service executes buys and sells against a portfolio with average-cost accounting
type Service struct {
	store          Store
	locks          *locker
	openingBalance decimal.Decimal
	pricePolicy    PricePolicy
	notifier       TradeNotifier
	logger         *slog.Logger
	now            func() time.Time
}

// NewService creates a new Service
func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:          store,
		locks:          newLocker(),
		openingBalance: opts.OpeningBalance,
		pricePolicy:    opts.PricePolicy,
		notifier:       opts.Notifier,
		logger:         opts.Logger,
		now:            opts.Now,
	}
	if s.openingBalance.IsZero() {
		s.openingBalance = models.DefaultOpeningBalance
	}
	if s.pricePolicy == "" {
		s.pricePolicy = PriceQuoted
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Buy debits price × quantity from the balance and adds the shares to the
// holding, recomputing its weighted average cost. The lock is released
// before the notifier runs.
func (s *Service) Buy(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var result *TradeResult
	err := s.atomically(ctx, req.PortfolioID, func(l Ledger) error {
		p, stock, price, err := s.prepare(ctx, l, req)
		if err != nil {
			return err
		}

		qty := decimal.NewFromInt(req.Quantity)
		total := price.Mul(qty)
		if p.Balance.LessThan(total) {
			return ErrInsufficientFunds
		}

		holding, err := l.GetHolding(ctx, p.ID, stock.ID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}

		balance := p.Balance.Sub(total)
		if err := l.UpdatePortfolioBalance(ctx, p.ID, balance); err != nil {
			return err
		}

		if holding != nil {
			if holding.CostBasis.IsZero() {
				holding.CostBasis = holding.AvgBuyPrice.Mul(decimal.NewFromInt(holding.Quantity))
			}
			holding.Quantity += req.Quantity
			holding.CostBasis = holding.CostBasis.Add(total)
			holding.AvgBuyPrice = averageCost(holding.CostBasis, holding.Quantity)
			if err := l.UpdateHolding(ctx, holding); err != nil {
				return err
			}
		} else {
			holding = &models.Holding{
				PortfolioID: p.ID,
				StockID:     stock.ID,
				Quantity:    req.Quantity,
				AvgBuyPrice: price,
				CostBasis:   total,
			}
			if err := l.CreateHolding(ctx, holding); err != nil {
				return err
			}
		}

		entry, err := s.record(ctx, l, p.ID, stock, models.TradeTypeBuy, req, price, total)
		if err != nil {
			return err
		}

		result = &TradeResult{
			Entry:   entry,
			Balance: balance,
			Position: OpenPosition(models.NewHoldingSnapshot(
				stock.Symbol, stock.Name, holding.Quantity, holding.AvgBuyPrice, stock.CurrentPrice,
			)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, result)
	return result, nil
}

// Sell credits price × quantity to the balance and removes the shares from
// the holding. The average cost is unchanged; a holding reaching zero shares
// is deleted.
func (s *Service) Sell(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var result *TradeResult
	err := s.atomically(ctx, req.PortfolioID, func(l Ledger) error {
		p, stock, price, err := s.prepare(ctx, l, req)
		if err != nil {
			return err
		}

		holding, err := l.GetHolding(ctx, p.ID, stock.ID)
		if errors.Is(err, models.ErrNotFound) {
			return ErrNoPosition
		}
		if err != nil {
			return err
		}
		if holding.Quantity < req.Quantity {
			return ErrInsufficientShares
		}

		total := price.Mul(decimal.NewFromInt(req.Quantity))
		balance := p.Balance.Add(total)
		if balance.GreaterThan(MaxBalance) {
			return ErrBalanceLimit
		}
		if err := l.UpdatePortfolioBalance(ctx, p.ID, balance); err != nil {
			return err
		}

		holding.Quantity -= req.Quantity
		position := NoPosition()
		if holding.Quantity == 0 {
			if err := l.DeleteHolding(ctx, holding.ID); err != nil {
				return err
			}
		} else {
			holding.CostBasis = holding.AvgBuyPrice.Mul(decimal.NewFromInt(holding.Quantity))
			if err := l.UpdateHolding(ctx, holding); err != nil {
				return err
			}
			position = OpenPosition(models.NewHoldingSnapshot(
				stock.Symbol, stock.Name, holding.Quantity, holding.AvgBuyPrice, stock.CurrentPrice,
			))
		}

		entry, err := s.record(ctx, l, p.ID, stock, models.TradeTypeSell, req, price, total)
		if err != nil {
			return err
		}

		result = &TradeResult{Entry: entry, Balance: balance, Position: position}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, result)
	return result, nil
}

// Summary values every holding of the portfolio at current prices. A
// portfolio that has never traded is shown with the opening balance and is
// not created.
func (s *Service) Summary(ctx context.Context, portfolioID int64) (*models.PortfolioSummary, error) {
	p, err := s.store.GetPortfolio(ctx, portfolioID)
	if errors.Is(err, models.ErrNotFound) {
		p, err = &models.Portfolio{ID: portfolioID, Balance: s.openingBalance}, nil
	}
	if err != nil {
		return nil, err
	}
	holdings, err := s.store.GetHoldingsByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		PortfolioID:   p.ID,
		Balance:       p.Balance,
		Holdings:      make([]models.HoldingSnapshot, 0, len(holdings)),
		HoldingsValue: decimal.Zero,
		ProfitLoss:    decimal.Zero,
	}
	for _, h := range holdings {
		snap := h.Snapshot()
		summary.Holdings = append(summary.Holdings, snap)
		summary.HoldingsValue = summary.HoldingsValue.Add(snap.CurrentValue)
		summary.ProfitLoss = summary.ProfitLoss.Add(snap.ProfitLoss)
	}
	summary.TotalValue = summary.Balance.Add(summary.HoldingsValue)
	return summary, nil
}

// History returns the most recent ledger entries of the portfolio, newest first
func (s *Service) History(ctx context.Context, portfolioID int64, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.GetLedgerEntries(ctx, portfolioID, limit)
}

// atomically runs fn in one store transaction while holding the portfolio's
// lock. The lock is released as soon as the transaction ends.
func (s *Service) atomically(ctx context.Context, portfolioID int64, fn func(Ledger) error) error {
	unlock := s.locks.Lock(portfolioID)
	defer unlock()
	return s.store.Atomically(ctx, fn)
}

func validate(req TradeRequest) error {
	if req.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if req.Price.IsNegative() || req.Price.GreaterThan(MaxPrice) {
		return ErrInvalidPrice
	}
	return nil
}

// prepare runs the lookups shared by Buy and Sell and resolves the execution price
func (s *Service) prepare(ctx context.Context, l Ledger, req TradeRequest) (*models.Portfolio, *models.Stock, decimal.Decimal, error) {
	if req.OrderID != "" {
		exists, err := l.LedgerEntryExistsByOrderID(ctx, req.OrderID)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		if exists {
			return nil, nil, decimal.Zero, ErrDuplicateOrder
		}
	}

	stock, err := l.GetStockBySymbol(ctx, req.Symbol)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, decimal.Zero, fmt.Errorf("%w: %s", ErrStockNotFound, req.Symbol)
	}
	if err != nil {
		return nil, nil, decimal.Zero, err
	}

	p, err := l.GetOrCreatePortfolio(ctx, req.PortfolioID, s.openingBalance)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}

	price := req.Price
	if s.pricePolicy == PriceMarket {
		price = stock.CurrentPrice
	}
	return p, stock, roundCents(price), nil
}

func (s *Service) record(ctx context.Context, l Ledger, portfolioID int64, stock *models.Stock, tradeType string, req TradeRequest, price, total decimal.Decimal) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{
		PortfolioID: portfolioID,
		StockID:     stock.ID,
		Symbol:      stock.Symbol,
		TradeType:   tradeType,
		Quantity:    req.Quantity,
		Price:       price,
		Total:       total,
		OrderID:     req.OrderID,
		ExecutedAt:  s.now(),
	}
	if err := l.CreateLedgerEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) notify(ctx context.Context, result *TradeResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.TradeExecuted(ctx, result.Entry, result.Balance); err != nil {
		s.logger.WarnContext(ctx, "failed to publish trade",
			slog.String("symbol", result.Entry.Symbol),
			slog.Int64("ledger_entry_id", result.Entry.ID),
			slog.Any("error", err))
	}
}

// roundCents rounds to 2 places with banker's rounding, the precision the ledger stores
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// averageCost divides the cost basis over quantity shares. It depends only
// on the totals, never on the order the lots were bought in.
func averageCost(costBasis decimal.Decimal, quantity int64) decimal.Decimal {
	return costBasis.DivRound(decimal.NewFromInt(quantity), averagePlaces)
}
