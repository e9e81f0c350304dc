// internal/repository/postgres/item_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmstand/internal/domain"
	"farmstand/internal/repository"
	"farmstand/internal/util"

	"github.com/jmoiron/sqlx"
)

// ItemRepository implements repository.ItemRepository for PostgreSQL.
type ItemRepository struct {
	// Stateless; methods receive a DBExecutor directly
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db *sqlx.DB) repository.ItemRepository {
	return &ItemRepository{}
}

// CreateItem inserts a new item using the provided DBExecutor. The database
// assigns the next sequential ID, which is written back into item.
func (r *ItemRepository) CreateItem(ctx context.Context, q repository.DBExecutor, item *domain.Item) error {
	query := `INSERT INTO items (name, description, image_url, price, quantity, seller, active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		item.Name,
		item.Description,
		item.ImageURL,
		item.Price,
		item.Quantity,
		item.Seller,
		item.Active,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetItemByID retrieves an item by its ID using the provided DBExecutor.
func (r *ItemRepository) GetItemByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Item, error) {
	var item domain.Item
	query := `SELECT id, name, description, image_url, price, quantity, seller, active, created_at, updated_at
              FROM items WHERE id = $1`
	err := q.GetContext(ctx, &item, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID %d: %w", id, err)
	}
	return &item, nil
}

// GetItemForUpdate retrieves an item with its row locked until the
// surrounding transaction ends. Concurrent purchases against the same item
// serialize on this lock.
func (r *ItemRepository) GetItemForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Item, error) {
	var item domain.Item
	query := `SELECT id, name, description, image_url, price, quantity, seller, active, created_at, updated_at
              FROM items WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &item, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item %d for update: %w", id, err)
	}
	return &item, nil
}

// ListItems retrieves all items, newest first. With activeOnly set, sold-out
// and deactivated items are excluded.
func (r *ItemRepository) ListItems(ctx context.Context, q repository.DBExecutor, activeOnly bool) ([]domain.Item, error) {
	items := []domain.Item{}
	query := `SELECT id, name, description, image_url, price, quantity, seller, active, created_at, updated_at
              FROM items ORDER BY id DESC`
	if activeOnly {
		query = `SELECT id, name, description, image_url, price, quantity, seller, active, created_at, updated_at
                 FROM items WHERE active = TRUE ORDER BY id DESC`
	}
	if err := q.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// NextItemID returns the ID the next listing will receive. Items are never
// deleted, so the maximum assigned ID plus one is exact.
func (r *ItemRepository) NextItemID(ctx context.Context, q repository.DBExecutor) (int64, error) {
	var next int64
	query := `SELECT COALESCE(MAX(id), 0) + 1 FROM items`
	if err := q.GetContext(ctx, &next, query); err != nil {
		return 0, fmt.Errorf("failed to get next item ID: %w", err)
	}
	return next, nil
}

// UpdateItemStock sets an item's remaining quantity and active flag using
// the provided DBExecutor.
func (r *ItemRepository) UpdateItemStock(ctx context.Context, q repository.DBExecutor, id, quantity int64, active bool) error {
	query := `UPDATE items SET quantity = $1, active = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, quantity, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update stock for item %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating stock for item %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating stock for item %d, item might not exist", id)
	}
	return nil
}
