package util

import (
	"fmt"
	"time"
)

// maximum single amount: ten million dollars in cents
const maxAmountCents = 10_000_000 * 100

// ValidateAmountCents checks a transaction amount (positive, capped).
func ValidateAmountCents(cents int64) error {
	if cents <= 0 {
		return fmt.Errorf("amount must be positive, got %d", cents)
	}
	if cents >= maxAmountCents {
		return fmt.Errorf("amount too large, got %d", cents)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string and returns the parsed
// value.
func ValidateDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateMonthYear checks a budget period.
func ValidateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month out of range: %d", month)
	}
	if year < 1900 || year > 2200 {
		return fmt.Errorf("year out of range: %d", year)
	}
	return nil
}
