package database

import (
	"context"

	"github.com/trogers1052/paisabuddy/internal/portfolio"
)

// LedgerStore adapts DB to portfolio.Store
type LedgerStore struct {
	*DB
}

// NewLedgerStore creates a new LedgerStore
func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{DB: db}
}

// Atomically runs fn in a single database transaction
func (s *LedgerStore) Atomically(ctx context.Context, fn func(portfolio.Ledger) error) error {
	return s.RunInTx(ctx, func(tx *DB) error {
		return fn(tx)
	})
}
