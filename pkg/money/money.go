// Package money handles integer minor-unit amounts (haléře) and their Czech
// display formatting. Stored and wire values are always integers; division by
// 100 happens only here.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const currencySuffix = "Kč"

// nbsp is the group/currency separator used by Czech formatting.
const nbsp = " "

// Major converts a minor-unit amount to its decimal major-unit value
// (e.g. 109600 -> 1096.00).
func Major(minor int) decimal.Decimal {
	return decimal.New(int64(minor), -2)
}

// FormatCZK renders a minor-unit amount as a Czech currency string,
// e.g. 109600 -> "1 096,00 Kč".
func FormatCZK(minor int) string {
	neg := minor < 0
	abs := minor
	if neg {
		abs = -abs
	}

	major := abs / 100
	frac := abs % 100

	digits := fmt.Sprintf("%d", major)
	var grouped strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		grouped.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteString(nbsp)
		}
		grouped.WriteString(digits[i : i+3])
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s,%02d%s%s", sign, grouped.String(), frac, nbsp, currencySuffix)
}

// ParseCZK parses a Czech currency string back into minor units. It accepts
// both regular and non-breaking spaces and an optional "Kč" suffix.
func ParseCZK(value string) (int, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimSuffix(cleaned, currencySuffix)
	cleaned = strings.ReplaceAll(cleaned, nbsp, "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}

	minor := dec.Mul(decimal.NewFromInt(100))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-minor precision", value)
	}
	return int(minor.IntPart()), nil
}
