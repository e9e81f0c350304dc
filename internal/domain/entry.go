// internal/domain/entry.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType defines the kind of ledger entry.
type EntryType string

const (
	EntryTypeSale       EntryType = "SALE"
	EntryTypeWithdrawal EntryType = "WITHDRAWAL"
)

// Entry is an append-only record of a settled movement in the ledger: a
// completed purchase or a withdrawal. Entries are written in the same
// database transaction as the mutation they record.
type Entry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Type      EntryType `db:"type" json:"type"`
	ItemID    *int64    `db:"item_id" json:"item_id,omitempty"` // Set for sales, nil for withdrawals
	Seller    string    `db:"seller" json:"seller"`
	Buyer     *string   `db:"buyer" json:"buyer,omitempty"` // Set for sales, nil for withdrawals
	Currency  Currency  `db:"currency" json:"currency"`
	Quantity  int64     `db:"quantity" json:"quantity"` // Units sold; zero for withdrawals
	Amount    int64     `db:"amount" json:"amount"`     // Micro-units moved
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewSaleEntry records a completed purchase of quantity units from seller by
// buyer, settling amount micro-units in the given currency.
func NewSaleEntry(itemID int64, seller, buyer string, currency Currency, quantity, amount int64) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Type:      EntryTypeSale,
		ItemID:    &itemID,
		Seller:    seller,
		Buyer:     &buyer,
		Currency:  currency,
		Quantity:  quantity,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// NewWithdrawalEntry records a seller zeroing their balance in one currency.
func NewWithdrawalEntry(seller string, currency Currency, amount int64) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Type:      EntryTypeWithdrawal,
		Seller:    seller,
		Currency:  currency,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}
