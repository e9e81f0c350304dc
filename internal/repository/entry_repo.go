// internal/repository/entry_repo.go
package repository

import (
	"context"

	"farmstand/internal/domain"
)

// EntryRepository defines the interface for the append-only ledger entries.
type EntryRepository interface {
	// CreateEntry appends a new ledger entry.
	CreateEntry(ctx context.Context, q DBExecutor, entry *domain.Entry) error
	// GetEntriesBySeller retrieves a seller's entries, newest first, along
	// with the total count for pagination.
	GetEntriesBySeller(ctx context.Context, q DBExecutor, seller string, limit, offset int) ([]domain.Entry, int64, error)
}
