// internal/domain/item.go
package domain

import (
	"time"

	"farmstand/internal/util"
)

// Length bounds for item text fields, in bytes.
const (
	MaxNameLen        = 100
	MaxDescriptionLen = 200
	MaxImageURLLen    = 200
)

// Item represents a listed, purchasable unit of inventory.
// Price is an integer amount in micro-units; the same numeric price is
// charged regardless of which currency the buyer pays with.
type Item struct {
	ID          int64     `db:"id" json:"id"`                   // Primary key, BIGSERIAL in DB, assigned sequentially and never reused
	Name        string    `db:"name" json:"name"`               // Display name, <= 100 bytes
	Description string    `db:"description" json:"description"` // Description, <= 200 bytes
	ImageURL    string    `db:"image_url" json:"image_url"`     // Opaque image location, <= 200 bytes
	Price       int64     `db:"price" json:"price"`             // Unit price in micro-units, non-negative
	Quantity    int64     `db:"quantity" json:"quantity"`       // Remaining stock, never negative
	Seller      string    `db:"seller" json:"seller"`           // Lister's account, immutable after creation
	Active      bool      `db:"active" json:"active"`           // Cleared when quantity reaches zero; never set again
	CreatedAt   time.Time `db:"created_at" json:"created_at"`   // Timestamp of listing
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`   // Timestamp of last purchase
}

// NewItem creates a new Item instance for a seller. It validates field
// bounds but does not reject a zero quantity: a zero-quantity listing is
// accepted and simply never purchasable.
func NewItem(seller, name, description, imageURL string, price, quantity int64) (*Item, error) {
	if seller == "" {
		return nil, util.ErrInvalidInput
	}
	if name == "" || len(name) > MaxNameLen {
		return nil, util.ErrInvalidInput
	}
	if len(description) > MaxDescriptionLen {
		return nil, util.ErrInvalidInput
	}
	if len(imageURL) > MaxImageURLLen {
		return nil, util.ErrInvalidInput
	}
	if price < 0 || quantity < 0 {
		return nil, util.ErrInvalidInput
	}

	now := time.Now().UTC()
	return &Item{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		Price:       price,
		Quantity:    quantity,
		Seller:      seller,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Purchasable reports whether a purchase of the requested quantity can
// proceed against this item. Inactive items and insufficient stock are
// deliberately not distinguished.
func (i *Item) Purchasable(requested int64) bool {
	return i.Active && requested >= 1 && i.Quantity >= requested
}
