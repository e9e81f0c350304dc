// internal/repository/postgres/entry_pg.go
package postgres

import (
	"context"
	"fmt"

	"farmstand/internal/domain"
	"farmstand/internal/repository"

	"github.com/jmoiron/sqlx"
)

// EntryRepository implements repository.EntryRepository for PostgreSQL.
type EntryRepository struct {
	// Stateless; methods receive a DBExecutor directly
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db *sqlx.DB) repository.EntryRepository {
	return &EntryRepository{}
}

// CreateEntry appends a new ledger entry using the provided DBExecutor.
func (r *EntryRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.Entry) error {
	query := `INSERT INTO entries (id, type, item_id, seller, buyer, currency, quantity, amount, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := q.ExecContext(ctx, query,
		entry.ID,
		entry.Type,
		entry.ItemID,
		entry.Seller,
		entry.Buyer,
		entry.Currency,
		entry.Quantity,
		entry.Amount,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// GetEntriesBySeller retrieves a paginated list of ledger entries for a
// seller. It performs two queries: one for the data and one for the total
// count.
func (r *EntryRepository) GetEntriesBySeller(ctx context.Context, q repository.DBExecutor, seller string, limit, offset int) ([]domain.Entry, int64, error) {
	entries := []domain.Entry{}

	query := `
		SELECT id, type, item_id, seller, buyer, currency, quantity, amount, created_at
		FROM entries
		WHERE seller = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &entries, query, seller, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch entries for seller %s: %w", seller, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM entries WHERE seller = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, seller)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total entry count for seller %s: %w", seller, err)
	}

	return entries, totalCount, nil
}
