// Package pricing simulates market prices with a bounded random walk.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// MaxStepPercent bounds a single price move in either direction
const MaxStepPercent = 2.0

// Prices is the store access a refresh needs
type Prices interface {
	GetAllStocks(ctx context.Context) ([]*models.Stock, error)
	UpdateStockPrice(ctx context.Context, symbol string, price decimal.Decimal, at time.Time) error
}

// Store runs a refresh in one atomic unit
type Store interface {
	Prices
	Atomically(ctx context.Context, fn func(Prices) error) error
}

// Notifier receives the quotes of every committed refresh
type Notifier interface {
	PricesUpdated(ctx context.Context, quotes []models.PriceQuote) error
}

// Options configures a Feed
type Options struct {
	// MinPrice clamps walked prices from below. Zero disables clamping.
	MinPrice  decimal.Decimal
	Rand      func() float64
	Notifiers []Notifier
	Logger    *slog.Logger
	Now       func() time.Time
}

// Feed moves every stock's price by a random step of at most ±2%
type Feed struct {
	store     Store
	mu        sync.Mutex
	committed atomic.Uint64
	rand      func() float64
	minPrice  decimal.Decimal
	notifiers []Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewFeed creates a new Feed
func NewFeed(store Store, opts Options) *Feed {
	f := &Feed{
		store:     store,
		rand:      opts.Rand,
		minPrice:  opts.MinPrice,
		notifiers: opts.Notifiers,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if f.rand == nil {
		f.rand = rand.Float64
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// AddNotifier registers n for future refreshes
func (f *Feed) AddNotifier(n Notifier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifiers = append(f.notifiers, n)
}

// Step applies a move of u percent to price and rounds to 2 places
func Step(price decimal.Decimal, u float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 + u/100)
	return price.Mul(factor).RoundBank(2)
}

// Refresh walks every stock's price once and returns the new quotes.
// Refreshes are serialized; notifiers run after the lock is released and are
// skipped once a newer refresh has committed.
func (f *Feed) Refresh(ctx context.Context) ([]models.PriceQuote, error) {
	quotes, generation, notifiers, err := f.walk(ctx)
	if err != nil {
		return nil, err
	}

	for _, n := range notifiers {
		if f.committed.Load() != generation {
			f.logger.DebugContext(ctx, "newer prices committed, skipping stale notification")
			break
		}
		if err := n.PricesUpdated(ctx, quotes); err != nil {
			f.logger.WarnContext(ctx, "price notifier failed", slog.Any("error", err))
		}
	}
	return quotes, nil
}

// walk moves and stores every price in one transaction
func (f *Feed) walk(ctx context.Context) ([]models.PriceQuote, uint64, []Notifier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var quotes []models.PriceQuote
	err := f.store.Atomically(ctx, func(p Prices) error {
		stocks, err := p.GetAllStocks(ctx)
		if err != nil {
			return err
		}

		at := f.now()
		quotes = make([]models.PriceQuote, 0, len(stocks))
		for _, s := range stocks {
			u := f.rand()*2*MaxStepPercent - MaxStepPercent
			price := Step(s.CurrentPrice, u)
			if f.minPrice.IsPositive() && price.LessThan(f.minPrice) {
				price = f.minPrice
			}
			if err := p.UpdateStockPrice(ctx, s.Symbol, price, at); err != nil {
				return err
			}
			quotes = append(quotes, models.PriceQuote{Symbol: s.Symbol, Price: price, UpdatedAt: at})
		}
		return nil
	})
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to refresh prices: %w", err)
	}

	notifiers := append([]Notifier(nil), f.notifiers...)
	return quotes, f.committed.Add(1), notifiers, nil
}

// Run refreshes prices every interval until ctx is cancelled
func (f *Feed) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	f.logger.InfoContext(ctx, "price ticker started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			f.logger.InfoContext(ctx, "price ticker stopped")
			return nil
		case <-ticker.C:
			quotes, err := f.Refresh(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				f.logger.ErrorContext(ctx, "scheduled price refresh failed", slog.Any("error", err))
				continue
			}
			f.logger.DebugContext(ctx, "prices refreshed", slog.Int("stocks", len(quotes)))
		}
	}
}
