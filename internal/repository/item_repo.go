// internal/repository/item_repo.go
package repository

import (
	"context"

	"farmstand/internal/domain"
)

// ItemRepository defines the interface for catalog data operations.
type ItemRepository interface {
	// CreateItem inserts a new item and fills in its assigned ID.
	CreateItem(ctx context.Context, q DBExecutor, item *domain.Item) error
	// GetItemByID retrieves an item by its ID. Returns util.ErrNotFound if
	// the ID was never assigned.
	GetItemByID(ctx context.Context, q DBExecutor, id int64) (*domain.Item, error)
	// GetItemForUpdate retrieves an item and locks its row for the duration
	// of the surrounding transaction. q must be a transaction executor.
	GetItemForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Item, error)
	// ListItems retrieves all items, newest first, optionally restricted to
	// active ones.
	ListItems(ctx context.Context, q DBExecutor, activeOnly bool) ([]domain.Item, error)
	// NextItemID returns the ID the next listing will receive.
	NextItemID(ctx context.Context, q DBExecutor) (int64, error)
	// UpdateItemStock sets an item's remaining quantity and active flag.
	UpdateItemStock(ctx context.Context, q DBExecutor, id, quantity int64, active bool) error
}
