package util

import (
	"fmt"
	"time"
)

// ValidateDate checks a calendar date string (must be YYYY-MM-DD) and returns
// the parsed date.
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

// ValidateCategory checks a category name (non-empty, reasonable length).
func ValidateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("category is empty")
	}
	if len(category) > 64 {
		return fmt.Errorf("category too long, max 64 characters")
	}
	return nil
}

// ValidateTransactionType checks the type discriminator.
func ValidateTransactionType(t string) error {
	if t != "income" && t != "expense" {
		return fmt.Errorf("type must be income or expense, got %q", t)
	}
	return nil
}
