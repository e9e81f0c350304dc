// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrInvalidInput    = errors.New("invalid input provided")
	ErrItemNotFound    = errors.New("item not found")
	ErrItemUnavailable = errors.New("item inactive or insufficient stock")
	ErrNotSeller       = errors.New("caller is not the item's seller")
	ErrNoEarnings      = errors.New("no earnings to withdraw")
	ErrNotFound        = errors.New("resource not found")
)

// Stable numeric error codes surfaced in API error payloads. 102 and 104
// are fixed by the settlement contract this ledger mirrors; the remaining
// slots are assigned here.
const (
	CodeInvalidInput    = 100
	CodeItemNotFound    = 101
	CodeItemUnavailable = 102
	CodeNotSeller       = 103
	CodeNoEarnings      = 104
)

// ErrorCode returns the numeric code for a known sentinel error, or zero.
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrItemNotFound):
		return CodeItemNotFound
	case errors.Is(err, ErrItemUnavailable):
		return CodeItemUnavailable
	case errors.Is(err, ErrNotSeller):
		return CodeNotSeller
	case errors.Is(err, ErrNoEarnings):
		return CodeNoEarnings
	}
	return 0
}

// IsError reports whether err wraps target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
