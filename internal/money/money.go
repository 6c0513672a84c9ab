package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts travel as strings on the wire and live as integer cents in the
// database. Parsing goes through shopspring/decimal so "0.1" style inputs
// never pick up binary float error.

// MaxCents caps a single transaction at ten million units.
const MaxCents int64 = 10_000_000 * 100

var (
	ErrEmpty       = errors.New("amount is empty")
	ErrNotANumber  = errors.New("amount is not a valid number")
	ErrNotPositive = errors.New("amount must be positive")
	ErrTooPrecise  = errors.New("amount has more than two decimal places")
	ErrTooLarge    = errors.New("amount too large")
)

// ParseCents parses a user-entered decimal amount into cents.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrNotANumber
	}
	// trailing zeros ("1.100") are fine, a non-zero third decimal is not
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, ErrTooPrecise
	}
	v := cents.IntPart()
	if v <= 0 {
		return 0, ErrNotPositive
	}
	if v > MaxCents {
		return 0, ErrTooLarge
	}
	return v, nil
}

// FormatCents renders cents as a two-decimal string, e.g. 1234 -> "12.34".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
