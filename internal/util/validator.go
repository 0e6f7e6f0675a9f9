package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxAmount caps any single amount (10 million).
const MaxAmount = 10_000_000

// ValidateAmount checks amount is positive and under MaxAmount.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", amount)
	}
	if amount >= MaxAmount {
		return fmt.Errorf("amount too large, got %.2f", amount)
	}
	return nil
}

// ValidateBalance checks amount is zero or positive and under MaxAmount.
func ValidateBalance(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %.2f", amount)
	}
	if amount >= MaxAmount {
		return fmt.Errorf("amount too large, got %.2f", amount)
	}
	return nil
}

// ValidateName checks a trimmed display name is 1..max characters.
func ValidateName(name string, max int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if utf8.RuneCountInString(name) > max {
		return fmt.Errorf("name too long, max %d characters", max)
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339,          // 2025-12-03T00:00:00+08:00
	"2006-01-02T15:04:05", // 2025-12-03T00:00:00
	"2006-01-02",          // 2025-12-03
}

// ParseDate accepts RFC3339, a local datetime or a plain date. Values
// without an offset are read as UTC. The result is always in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", s)
}
