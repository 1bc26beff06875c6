package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// InsertShoppingItem persists a new shopping item and populates item.ID with
// the assigned surrogate key. Uniqueness of (name, addedBy) is enforced by
// the repository layer before this call.
func (s *SQLiteStore) InsertShoppingItem(ctx context.Context, item *models.ShoppingItem) error {
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_items (name, added_by, quantity, purchased, created_at, inventory_item_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name, item.AddedBy, item.Quantity, boolToInt(item.Purchased),
		item.CreatedAt, nullableString(item.LinkedInventoryID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted shopping item id: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateShoppingItem replaces an item by ID.
// Returns storage.ErrNotFound when the ID does not exist.
func (s *SQLiteStore) UpdateShoppingItem(ctx context.Context, item *models.ShoppingItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE shopping_items
		 SET name = ?, added_by = ?, quantity = ?, purchased = ?, inventory_item_id = ?
		 WHERE id = ?`,
		item.Name, item.AddedBy, item.Quantity, boolToInt(item.Purchased),
		nullableString(item.LinkedInventoryID), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update shopping item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("shopping item %d: %w", item.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteShoppingItem removes an item by ID.
func (s *SQLiteStore) DeleteShoppingItem(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM shopping_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	return nil
}

// ListShoppingItems returns all items, unpurchased first, oldest first
// within each group.
func (s *SQLiteStore) ListShoppingItems(ctx context.Context) ([]models.ShoppingItem, error) {
	return s.queryShoppingItems(ctx,
		`SELECT id, name, added_by, quantity, purchased, created_at, inventory_item_id
		 FROM shopping_items ORDER BY purchased ASC, created_at ASC`)
}

// ListShoppingItemsByIDs returns the items with the given IDs.
func (s *SQLiteStore) ListShoppingItemsByIDs(ctx context.Context, ids []int64) ([]models.ShoppingItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, name, added_by, quantity, purchased, created_at, inventory_item_id
		 FROM shopping_items WHERE id IN (%s)`, placeholders(len(ids)))
	return s.queryShoppingItems(ctx, query, int64sToArgs(ids)...)
}

// ListPurchasedItems returns items with the purchased flag set.
func (s *SQLiteStore) ListPurchasedItems(ctx context.Context) ([]models.ShoppingItem, error) {
	return s.queryShoppingItems(ctx,
		`SELECT id, name, added_by, quantity, purchased, created_at, inventory_item_id
		 FROM shopping_items WHERE purchased = 1`)
}

// MarkItemsPurchased sets the purchased flag for the given IDs in one
// statement, so concurrent readers never observe a partially applied batch.
func (s *SQLiteStore) MarkItemsPurchased(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf("UPDATE shopping_items SET purchased = 1 WHERE id IN (%s)", placeholders(len(ids)))
	if _, err := s.db.ExecContext(ctx, query, int64sToArgs(ids)...); err != nil {
		return fmt.Errorf("failed to mark items purchased: %w", err)
	}
	return nil
}

// CountItemsByNameAndAdder counts items matching (name, addedBy)
// case-insensitively.
func (s *SQLiteStore) CountItemsByNameAndAdder(ctx context.Context, name, addedBy string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shopping_items WHERE LOWER(name) = LOWER(?) AND LOWER(added_by) = LOWER(?)",
		name, addedBy,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count shopping items by name and adder: %w", err)
	}
	return n, nil
}

// CountShoppingItems returns the number of stored items.
func (s *SQLiteStore) CountShoppingItems(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shopping_items").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count shopping items: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) queryShoppingItems(ctx context.Context, query string, args ...any) ([]models.ShoppingItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping items: %w", err)
	}
	defer rows.Close()

	var items []models.ShoppingItem
	for rows.Next() {
		var item models.ShoppingItem
		var purchased int
		var linkedID sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.AddedBy, &item.Quantity, &purchased, &item.CreatedAt, &linkedID); err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		item.Purchased = purchased != 0
		item.LinkedInventoryID = linkedID.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping items: %w", err)
	}
	return items, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64sToArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
