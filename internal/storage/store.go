// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitbasket/splitbasket/internal/models"
)

// InventoryStore persists inventory items.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the repository layer.
type InventoryStore interface {
	// InsertInventoryItem persists an item. An existing row with the same
	// ID is replaced.
	InsertInventoryItem(ctx context.Context, item *models.InventoryItem) error

	// UpdateInventoryItem replaces an item by ID.
	// Returns ErrNotFound if no such item exists.
	UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error

	// DeleteInventoryItem removes an item by ID. Deleting a missing item
	// is not an error.
	DeleteInventoryItem(ctx context.Context, id string) error

	// GetInventoryItem retrieves an item by ID.
	// Returns ErrNotFound if no such item exists.
	GetInventoryItem(ctx context.Context, id string) (*models.InventoryItem, error)

	// ListInventoryItems returns all items.
	ListInventoryItems(ctx context.Context) ([]models.InventoryItem, error)

	// CountInventoryItems returns the number of stored items.
	CountInventoryItems(ctx context.Context) (int, error)
}

// ShoppingStore persists shopping-list items.
type ShoppingStore interface {
	// InsertShoppingItem persists a new item and populates item.ID with the
	// assigned surrogate key.
	InsertShoppingItem(ctx context.Context, item *models.ShoppingItem) error

	// UpdateShoppingItem replaces an item by ID.
	// Returns ErrNotFound if no such item exists.
	UpdateShoppingItem(ctx context.Context, item *models.ShoppingItem) error

	// DeleteShoppingItem removes an item by ID.
	DeleteShoppingItem(ctx context.Context, id int64) error

	// ListShoppingItems returns all items ordered by purchased flag then
	// creation time.
	ListShoppingItems(ctx context.Context) ([]models.ShoppingItem, error)

	// ListShoppingItemsByIDs returns the items with the given IDs.
	ListShoppingItemsByIDs(ctx context.Context, ids []int64) ([]models.ShoppingItem, error)

	// ListPurchasedItems returns items with the purchased flag set.
	ListPurchasedItems(ctx context.Context) ([]models.ShoppingItem, error)

	// MarkItemsPurchased sets the purchased flag for the given IDs in one
	// transaction.
	MarkItemsPurchased(ctx context.Context, ids []int64) error

	// CountItemsByNameAndAdder counts items matching (name, addedBy)
	// case-insensitively. Used for duplicate detection.
	CountItemsByNameAndAdder(ctx context.Context, name, addedBy string) (int, error)

	// CountShoppingItems returns the number of stored items.
	CountShoppingItems(ctx context.Context) (int, error)
}

// BillStore persists bills with their participants and custom amounts.
type BillStore interface {
	// InsertBill persists a new bill. Generates bill.ID when unset.
	InsertBill(ctx context.Context, bill *models.Bill) error

	// UpdateBill replaces a bill by ID.
	// Returns ErrNotFound if no such bill exists.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill by ID. Deleting a missing bill is not an
	// error.
	DeleteBill(ctx context.Context, id string) error

	// GetBill retrieves a bill by ID.
	// Returns ErrNotFound if no such bill exists.
	GetBill(ctx context.Context, id string) (*models.Bill, error)

	// ListBills returns all bills.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// ListBillsByStatus returns bills filtered by status
	// (models.BillUnpaid or models.BillPaid).
	ListBillsByStatus(ctx context.Context, status string) ([]models.Bill, error)

	// CountBills returns the number of stored bills.
	CountBills(ctx context.Context) (int, error)
}

// JournalStore persists encoded event-log rows in append order.
// Rows are opaque strings at this layer; encoding and decoding live in the
// event log itself.
type JournalStore interface {
	// AppendJournalRow appends one encoded row.
	AppendJournalRow(ctx context.Context, encoded string) error

	// ListJournalRows returns all rows in append order (oldest first).
	ListJournalRows(ctx context.Context) ([]string, error)

	// ClearJournal deletes all rows.
	ClearJournal(ctx context.Context) error
}

// FlagStore is a small key-value area for persisted booleans such as the
// per-store first-launch flags that gate seeding.
type FlagStore interface {
	// GetFlag returns the flag value, or fallback when the key is absent.
	GetFlag(ctx context.Context, key string, fallback bool) (bool, error)

	// SetFlag stores the flag value.
	SetFlag(ctx context.Context, key string, value bool) error
}

// Store aggregates all persistence concerns behind one handle. The sqlite
// implementation backs every interface with a single database file.
type Store interface {
	InventoryStore
	ShoppingStore
	BillStore
	JournalStore
	FlagStore

	// Close releases any resources held by the store.
	Close() error
}
