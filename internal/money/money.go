// Package money provides a fixed-point amount type for bill arithmetic.
//
// Amounts are stored as integer cents so that splitting and summing never
// accumulate floating-point error. Display strings carry a currency symbol
// ("$ 128.30") but the symbol is a formatting concern, never part of the
// stored value.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in cents.
type Amount int64

// FromCents builds an Amount from an integer number of cents.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// FromFloat converts a float value in major units (dollars) to an Amount,
// rounding half away from zero.
func FromFloat(v float64) Amount {
	if v < 0 {
		return Amount(v*100 - 0.5)
	}
	return Amount(v*100 + 0.5)
}

// Parse reads a decimal amount string, tolerating a leading currency glyph
// and surrounding whitespace ("$ 389.50", "¥100.00", "25.00").
// Returns an error for empty or non-numeric input.
func Parse(s string) (Amount, error) {
	cleaned := stripCurrency(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromFloat(v), nil
}

// stripCurrency removes anything before the first digit, minus sign or
// decimal point. Currency glyphs vary by locale so this is deliberately
// permissive.
func stripCurrency(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return strings.TrimSpace(s[i:])
		}
	}
	return ""
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Float returns the amount in major units. Only for interop with callers
// that want a float; arithmetic should stay in cents.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// String formats the amount as a plain decimal with two fraction digits.
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Display formats the amount with a currency symbol, matching the
// "$ 389.50" shape used in seed data and logs.
func (a Amount) Display(symbol string) string {
	if symbol == "" {
		return a.String()
	}
	return symbol + " " + a.String()
}

// Sum adds a list of amounts.
func Sum(amounts []Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
