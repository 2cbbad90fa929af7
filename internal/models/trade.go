package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade type constants
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
)

// LedgerEntry is an executed trade. Entries are append-only.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	PortfolioID int64           `json:"portfolio_id"`
	StockID     int64           `json:"stock_id"`
	Symbol      string          `json:"symbol"`
	TradeType   string          `json:"trade_type"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	OrderID     string          `json:"order_id,omitempty"`
	ExecutedAt  time.Time       `json:"executed_at"`
}

// TradeEvent represents a Kafka event for an executed trade
type TradeEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Entry     *LedgerEntry `json:"entry"`
	Balance   string       `json:"balance"`
	Timestamp time.Time    `json:"timestamp"`
}

// OrderEvent is an order placed on the orders topic
type OrderEvent struct {
	EventType string    `json:"event_type"`
	Source    string    `json:"source"`
	Timestamp string    `json:"timestamp"`
	Data      OrderData `json:"data"`
}

// OrderData contains the order fields. Numbers are strings to keep precision.
type OrderData struct {
	OrderID     string `json:"order_id"`
	PortfolioID int64  `json:"portfolio_id,omitempty"`
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
}
