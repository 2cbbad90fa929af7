package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock represents a tradable stock in the simulator
type Stock struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"price"`
	LastUpdated  time.Time       `json:"last_updated"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PriceQuote is the latest price of a single stock
type PriceQuote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Quote returns the stock's current price as a PriceQuote
func (s *Stock) Quote() PriceQuote {
	return PriceQuote{
		Symbol:    s.Symbol,
		Price:     s.CurrentPrice,
		UpdatedAt: s.LastUpdated,
	}
}

// PricesEvent represents a Kafka event for a price refresh
type PricesEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Quotes    []PriceQuote `json:"quotes"`
	Timestamp time.Time    `json:"timestamp"`
}
