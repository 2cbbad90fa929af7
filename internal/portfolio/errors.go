package portfolio

import "errors"

// Trade rejections. Every rejection is returned before the store is written.
var (
	ErrStockNotFound      = errors.New("stock not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrInsufficientShares = errors.New("not enough shares")
	ErrNoPosition         = errors.New("you do not own this stock")
	ErrDuplicateOrder     = errors.New("order already executed")
	ErrBalanceLimit       = errors.New("balance would exceed the account limit")
)
