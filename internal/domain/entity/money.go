package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money columns are stored as int64 cents.

// FromCents converts a cents column to a decimal amount
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents converts a decimal amount to cents. Amounts finer than a cent are rejected.
func ToCents(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", amount.String())
	}
	return shifted.IntPart(), nil
}
