// internal/repository/earnings_repo.go
package repository

import (
	"context"

	"farmstand/internal/domain"
)

// EarningsRepository defines the interface for the per-seller, per-currency
// earnings balances. Balances are implicit: a key that was never credited
// reads as zero, and no operation requires the row to pre-exist.
type EarningsRepository interface {
	// GetBalance returns the current balance for (seller, currency), zero if
	// the key was never credited.
	GetBalance(ctx context.Context, q DBExecutor, seller string, currency domain.Currency) (int64, error)
	// GetBalanceForUpdate is GetBalance with the row locked for the duration
	// of the surrounding transaction. q must be a transaction executor. An
	// absent key still reads as zero (there is no row to lock, and none is
	// created).
	GetBalanceForUpdate(ctx context.Context, q DBExecutor, seller string, currency domain.Currency) (int64, error)
	// AddToBalance credits amount to (seller, currency), creating the row at
	// zero first if it does not exist.
	AddToBalance(ctx context.Context, q DBExecutor, seller string, currency domain.Currency, amount int64) error
	// ZeroBalance resets the balance for (seller, currency) to zero. The row
	// is kept, not deleted.
	ZeroBalance(ctx context.Context, q DBExecutor, seller string, currency domain.Currency) error
}
