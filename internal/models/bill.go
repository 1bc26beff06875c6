package models

import "github.com/splitbasket/splitbasket/internal/money"

// Bill status values.
const (
	BillUnpaid = "Unpaid"
	BillPaid   = "Paid"
)

// Bill split methods.
const (
	SplitEqual  = "Equal"
	SplitCustom = "Custom"
)

// Bill represents a shared expense split among household members.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Name is the human-readable bill name, e.g. "Weekend Party".
	Name string

	// Total is the full bill amount in cents.
	Total money.Amount

	// Currency is the display symbol for the bill's amounts, e.g. "$".
	Currency string

	// Status is BillUnpaid or BillPaid. The normal flow only ever moves
	// Unpaid -> Paid.
	Status string

	// SplitMethod is SplitEqual or SplitCustom.
	SplitMethod string

	// Participants is the ordered list of participant names.
	// Duplicates are not deduplicated.
	Participants []string

	// CustomAmounts holds each participant's share when SplitMethod is
	// SplitCustom, aligned by index with Participants. Empty otherwise.
	CustomAmounts []money.Amount

	// CreatedAt is the creation date in "2006-01-02" form.
	CreatedAt string
}

// DisplayAmount renders the total with the bill's currency symbol,
// e.g. "$ 389.50".
func (b Bill) DisplayAmount() string {
	return b.Total.Display(b.Currency)
}
