package models

import "time"

// Inventory item categories. Stored as plain strings so new categories can be
// introduced without a migration.
const (
	CategoryVegetable = "Vegetable"
	CategoryMeat      = "Meat"
	CategoryFruit     = "Fruit"
	CategoryOther     = "Other"
)

// InventoryItem represents one item tracked in the household inventory.
type InventoryItem struct {
	// ID is the unique identifier for the item (UUID format).
	// Immutable once the item is created.
	ID string

	// Name is the display name, e.g. "Tomatoes".
	Name string

	// Quantity is the number of units on hand. Never negative.
	Quantity int

	// Category is one of the Category* constants.
	Category string

	// ExpireAt is the expiry instant in Unix milliseconds, 0 when the item
	// has no expiry date.
	ExpireAt int64

	// CreatedAt is the creation instant in Unix milliseconds.
	CreatedAt int64

	// PhotoRef is an optional reference to a captured photo. The core never
	// interprets it; it is produced and consumed by the imaging collaborator.
	PhotoRef string
}

// ExpiresWithin reports whether the item expires after now and within the
// next days*24h. Items without an expiry date never match.
func (i InventoryItem) ExpiresWithin(now time.Time, days int) bool {
	if i.ExpireAt == 0 {
		return false
	}
	nowMillis := now.UnixMilli()
	limit := nowMillis + int64(days)*24*int64(time.Hour/time.Millisecond)
	return i.ExpireAt > nowMillis && i.ExpireAt <= limit
}
