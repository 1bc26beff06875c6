package calculator

import (
	"fmt"

	"github.com/splitbasket/splitbasket/internal/money"
)

// EqualSplit computes the per-person share when a bill total is divided
// evenly among participants. Remainder cents that do not divide evenly are
// distributed one at a time starting from the first participant, so the
// shares always sum back to the total.
func EqualSplit(total money.Amount, participants int) ([]money.Amount, error) {
	if participants < 1 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total < 0 {
		return nil, fmt.Errorf("total cannot be negative")
	}

	base := total.Cents() / int64(participants)
	remainder := total.Cents() % int64(participants)

	shares := make([]money.Amount, participants)
	for i := range shares {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		shares[i] = money.FromCents(cents)
	}
	return shares, nil
}

// CustomSplit validates per-participant amounts and derives the bill total
// as their sum. The total is never entered independently in custom mode.
// Every amount must be strictly positive; a zero or negative amount rejects
// that participant's entry.
func CustomSplit(amounts []money.Amount) (money.Amount, error) {
	if len(amounts) == 0 {
		return 0, fmt.Errorf("must have at least one participant")
	}
	for i, a := range amounts {
		if a <= 0 {
			return 0, fmt.Errorf("amount for participant %d must be positive, got %s", i+1, a)
		}
	}
	return money.Sum(amounts), nil
}

// Average divides a total by the participant count, truncating to whole
// cents. Returns 0 when there are no participants; it never fails. Callers
// use it for quick per-person figures on existing bills.
func Average(total money.Amount, participants int) money.Amount {
	if participants <= 0 {
		return 0
	}
	return money.FromCents(total.Cents() / int64(participants))
}

// AverageAmount is Average over a display-formatted total (possibly prefixed
// with a currency glyph, e.g. "$ 389.50"). Unparsable input yields 0. Only
// for callers that genuinely hold a string; amounts already in cents go
// through Average.
func AverageAmount(displayAmount string, participants int) money.Amount {
	total, err := money.Parse(displayAmount)
	if err != nil {
		return 0
	}
	return Average(total, participants)
}
