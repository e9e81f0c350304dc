// internal/util/amount.go
package util

import "github.com/shopspring/decimal"

// MicroUnits is the number of micro-units per display unit. All prices and
// balances in the ledger are integers in micro-units.
const MicroUnits = 1_000_000

// FormatAmount renders a micro-unit amount as a display-unit decimal string,
// e.g. 1_500_000 -> "1.5".
func FormatAmount(micro int64) string {
	return decimal.New(micro, -6).String()
}

// ToMicroUnits converts a display-unit decimal amount to micro-units,
// truncating anything below micro-unit precision.
func ToMicroUnits(amount decimal.Decimal) int64 {
	return amount.Shift(6).IntPart()
}
