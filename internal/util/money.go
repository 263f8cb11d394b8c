package util

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseCents converts a user-supplied dollar amount string to integer
// cents. Decimal parsing avoids float rounding on inputs like "0.1";
// anything finer than a cent is rejected.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	return cents.IntPart(), nil
}

// FormatCents renders integer cents as a dollar string with two
// decimal places.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}
