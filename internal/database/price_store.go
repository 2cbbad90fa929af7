package database

import (
	"context"

	"github.com/trogers1052/paisabuddy/internal/pricing"
)

// PriceStore adapts DB to pricing.Store
type PriceStore struct {
	*DB
}

// NewPriceStore creates a new PriceStore
func NewPriceStore(db *DB) *PriceStore {
	return &PriceStore{DB: db}
}

// Atomically runs fn in a single database transaction
func (s *PriceStore) Atomically(ctx context.Context, fn func(pricing.Prices) error) error {
	return s.RunInTx(ctx, func(tx *DB) error {
		return fn(tx)
	})
}
