package models

// ShoppingItem represents one entry on the shared shopping list.
type ShoppingItem struct {
	// ID is a surrogate key assigned by the store on insert,
	// monotonically increasing.
	ID int64

	// Name is the item name, e.g. "Milk".
	Name string

	// AddedBy is the household member who put the item on the list.
	// The (Name, AddedBy) pair is unique among stored items,
	// compared case-insensitively.
	AddedBy string

	// Quantity is the number of units wanted, at least 1.
	Quantity int

	// Purchased marks the item as bought.
	Purchased bool

	// CreatedAt is the creation instant in Unix milliseconds.
	CreatedAt int64

	// LinkedInventoryID optionally points at the inventory item created
	// when this entry was imported into the inventory.
	LinkedInventoryID string
}
