// internal/domain/earnings.go
package domain

import "time"

// Currency identifies one of the two settlement assets a buyer may pay with.
type Currency string

const (
	CurrencyNative Currency = "NATIVE" // The platform's native asset
	CurrencyStable Currency = "STABLE" // The stable asset
)

// Valid reports whether c is one of the two supported currencies.
func (c Currency) Valid() bool {
	return c == CurrencyNative || c == CurrencyStable
}

// CurrencyForFlag maps the buy-time currency selector onto a Currency.
func CurrencyForFlag(useNative bool) Currency {
	if useNative {
		return CurrencyNative
	}
	return CurrencyStable
}

// EarningsBalance is a seller's accumulated credit in one currency, in
// micro-units. A balance that was never credited does not exist as a row;
// reads treat an absent key as zero. Withdrawal resets the balance to zero,
// it never deletes it.
type EarningsBalance struct {
	Seller    string    `db:"seller" json:"seller"`
	Currency  Currency  `db:"currency" json:"currency"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SellerEarnings is the combined per-currency view of a seller's balances.
type SellerEarnings struct {
	Native int64 `json:"native"`
	Stable int64 `json:"stable"`
}
