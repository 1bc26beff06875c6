package models

// ActionType identifies the kind of domain mutation a log entry records.
type ActionType string

// Action types emitted by the stores.
const (
	InventoryAdd    ActionType = "INVENTORY_ADD"
	InventoryRemove ActionType = "INVENTORY_REMOVE"
	InventoryUpdate ActionType = "INVENTORY_UPDATE"

	ShoppingListAdd      ActionType = "SHOPPING_LIST_ADD"
	ShoppingListRemove   ActionType = "SHOPPING_LIST_REMOVE"
	ShoppingListCheck    ActionType = "SHOPPING_LIST_CHECK"
	ShoppingListPurchase ActionType = "SHOPPING_LIST_PURCHASE"
	ShoppingListUpdate   ActionType = "SHOPPING_LIST_UPDATE"

	BillAdd    ActionType = "BILL_ADD"
	BillUpdate ActionType = "BILL_UPDATE"
	BillRemove ActionType = "BILL_REMOVE"
	BillPay    ActionType = "BILL_PAY"
)

// LogEntry is one immutable record in the event log.
//
// Description is pre-formatted at append time ("Alice added bill: Dinner -
// $ 50.00") but never includes a relative-time suffix; readers append
// "N minutes ago" against the current clock so the suffix stays accurate
// without rewriting storage.
type LogEntry struct {
	// Timestamp is the append instant in Unix milliseconds.
	Timestamp int64

	// Action is the mutation type that produced this entry.
	Action ActionType

	// Description is the formatted human-readable line.
	Description string

	// User is the acting household member, possibly empty.
	User string
}
