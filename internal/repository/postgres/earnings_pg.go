// internal/repository/postgres/earnings_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmstand/internal/domain"
	"farmstand/internal/repository"

	"github.com/jmoiron/sqlx"
)

// EarningsRepository implements repository.EarningsRepository for PostgreSQL.
type EarningsRepository struct {
	// Stateless; methods receive a DBExecutor directly
}

// NewEarningsRepository creates a new EarningsRepository.
func NewEarningsRepository(db *sqlx.DB) repository.EarningsRepository {
	return &EarningsRepository{}
}

// GetBalance returns the balance for (seller, currency) using the provided
// DBExecutor. An absent key reads as zero.
func (r *EarningsRepository) GetBalance(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency) (int64, error) {
	var balance int64
	query := `SELECT balance FROM earnings WHERE seller = $1 AND currency = $2`
	err := q.GetContext(ctx, &balance, query, seller, currency)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get %s balance for seller %s: %w", currency, seller, err)
	}
	return balance, nil
}

// GetBalanceForUpdate returns the balance for (seller, currency) with its
// row locked until the surrounding transaction ends. Concurrent credits and
// withdrawals for the same key serialize on this lock. An absent key reads
// as zero without creating a row.
func (r *EarningsRepository) GetBalanceForUpdate(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency) (int64, error) {
	var balance int64
	query := `SELECT balance FROM earnings WHERE seller = $1 AND currency = $2 FOR UPDATE`
	err := q.GetContext(ctx, &balance, query, seller, currency)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to lock %s balance for seller %s: %w", currency, seller, err)
	}
	return balance, nil
}

// AddToBalance credits amount to (seller, currency) using the provided
// DBExecutor, creating the row if the key was never credited before.
func (r *EarningsRepository) AddToBalance(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency, amount int64) error {
	query := `INSERT INTO earnings (seller, currency, balance, updated_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (seller, currency)
              DO UPDATE SET balance = earnings.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at`
	_, err := q.ExecContext(ctx, query, seller, currency, amount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to credit %s balance for seller %s: %w", currency, seller, err)
	}
	return nil
}

// ZeroBalance resets the balance for (seller, currency) to zero using the
// provided DBExecutor. The row is kept so the key's history of existence
// survives the withdrawal.
func (r *EarningsRepository) ZeroBalance(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency) error {
	query := `UPDATE earnings SET balance = 0, updated_at = $1 WHERE seller = $2 AND currency = $3`
	result, err := q.ExecContext(ctx, query, time.Now().UTC(), seller, currency)
	if err != nil {
		return fmt.Errorf("failed to zero %s balance for seller %s: %w", currency, seller, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after zeroing %s balance for seller %s: %w", currency, seller, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when zeroing %s balance for seller %s, balance row might not exist", currency, seller)
	}
	return nil
}
