package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultOpeningBalance is the cash a lazily created portfolio starts with
var DefaultOpeningBalance = decimal.RequireFromString("100000.00")

// Portfolio holds the cash balance of a simulated trading account
type Portfolio struct {
	ID        int64           `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Holding is a nonzero position of a portfolio in one stock.
// A holding row never exists with a zero quantity. CostBasis is what the held
// shares cost in total and AvgBuyPrice is derived from it, so repeated buys
// never accumulate rounding.
type Holding struct {
	ID          int64           `json:"id"`
	PortfolioID int64           `json:"portfolio_id"`
	StockID     int64           `json:"stock_id"`
	Quantity    int64           `json:"quantity"`
	AvgBuyPrice decimal.Decimal `json:"avg_buy_price"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Populated by queries that join stocks
	Symbol       string          `json:"symbol,omitempty"`
	Name         string          `json:"name,omitempty"`
	CurrentPrice decimal.Decimal `json:"current_price,omitempty"`
}

// HoldingSnapshot is the valuation of a holding at the stock's current price
type HoldingSnapshot struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name,omitempty"`
	Quantity     int64           `json:"quantity"`
	AvgBuyPrice  decimal.Decimal `json:"avg_buy_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`
}

// NewHoldingSnapshot values quantity shares bought at avg against the current
// price. The average and the profit are shown in cents.
func NewHoldingSnapshot(symbol, name string, quantity int64, avg, current decimal.Decimal) HoldingSnapshot {
	qty := decimal.NewFromInt(quantity)
	return HoldingSnapshot{
		Symbol:       symbol,
		Name:         name,
		Quantity:     quantity,
		AvgBuyPrice:  avg.RoundBank(2),
		CurrentPrice: current,
		CurrentValue: current.Mul(qty),
		ProfitLoss:   current.Sub(avg).Mul(qty).RoundBank(2),
	}
}

// Snapshot values the holding with the joined stock columns
func (h *Holding) Snapshot() HoldingSnapshot {
	return NewHoldingSnapshot(h.Symbol, h.Name, h.Quantity, h.AvgBuyPrice, h.CurrentPrice)
}

// PortfolioSummary is the full valuation of a portfolio
type PortfolioSummary struct {
	PortfolioID    int64             `json:"portfolio_id"`
	Balance        decimal.Decimal   `json:"balance"`
	BalanceDisplay string            `json:"balance_display,omitempty"`
	Holdings       []HoldingSnapshot `json:"holdings"`
	HoldingsValue  decimal.Decimal   `json:"holdings_value"`
	ProfitLoss     decimal.Decimal   `json:"profit_loss"`
	TotalValue     decimal.Decimal   `json:"total_value"`
}
