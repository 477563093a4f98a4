// Package calc is the financial calculation engine. Every function is a pure function of
// its arguments: callers pass a ledger snapshot and configuration, and get plain values back.
package calc

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// ErrInvalidAmountFormat is returned by ParseAmount for text that is not a number
	ErrInvalidAmountFormat = errors.New("invalid amount format")
)

// ParseAmount parses a decimal amount written with either a period or a comma as the
// decimal separator. When both appear, the rightmost one is the decimal separator and the
// other is treated as a thousands separator ("1.234,56" and "1,234.56" both give 1234.56).
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, ErrInvalidAmountFormat
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return decimal.Zero, ErrInvalidAmountFormat
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmountFormat
	}
	return d, nil
}

// Percent returns part / whole × 100. whole must be non-zero; callers validate
// denominators when the record is created.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		panic("calc: percentage of a zero denominator")
	}
	return part.Div(whole).Mul(hundred)
}

// roundCents rounds to two decimal places, half away from zero
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
