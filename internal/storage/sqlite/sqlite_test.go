package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/money"
	"github.com/splitbasket/splitbasket/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInventoryCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := &models.InventoryItem{
		Name:     "Tomatoes",
		Quantity: 3,
		Category: models.CategoryVegetable,
		ExpireAt: 1700003600000,
	}
	require.NoError(t, store.InsertInventoryItem(ctx, item))
	assert.NotEmpty(t, item.ID, "insert should generate an ID")
	assert.NotZero(t, item.CreatedAt, "insert should set CreatedAt")

	t.Run("get returns stored fields", func(t *testing.T) {
		got, err := store.GetInventoryItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, *item, *got)
	})

	t.Run("insert replaces on conflict", func(t *testing.T) {
		replacement := *item
		replacement.Quantity = 5
		require.NoError(t, store.InsertInventoryItem(ctx, &replacement))

		got, err := store.GetInventoryItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Quantity)

		count, err := store.CountInventoryItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "replace must not create a second row")
	})

	t.Run("update missing id fails", func(t *testing.T) {
		missing := &models.InventoryItem{ID: "nope", Name: "x", Quantity: 1, Category: models.CategoryOther, CreatedAt: 1}
		err := store.UpdateInventoryItem(ctx, missing)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("optional fields survive as empty", func(t *testing.T) {
		bare := &models.InventoryItem{Name: "Salt", Quantity: 1, Category: models.CategoryOther}
		require.NoError(t, store.InsertInventoryItem(ctx, bare))

		got, err := store.GetInventoryItem(ctx, bare.ID)
		require.NoError(t, err)
		assert.Zero(t, got.ExpireAt)
		assert.Empty(t, got.PhotoRef)
	})

	t.Run("delete then get", func(t *testing.T) {
		require.NoError(t, store.DeleteInventoryItem(ctx, item.ID))
		_, err := store.GetInventoryItem(ctx, item.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// Deleting again is a no-op.
		assert.NoError(t, store.DeleteInventoryItem(ctx, item.ID))
	})
}

func TestShoppingCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.ShoppingItem{Name: "Milk", AddedBy: "Alice", Quantity: 2}
	require.NoError(t, store.InsertShoppingItem(ctx, first))
	assert.Positive(t, first.ID, "insert should assign a surrogate key")

	second := &models.ShoppingItem{Name: "Bread", AddedBy: "Bob", Quantity: 1}
	require.NoError(t, store.InsertShoppingItem(ctx, second))
	assert.Greater(t, second.ID, first.ID, "surrogate keys increase monotonically")

	t.Run("duplicate count is case-insensitive", func(t *testing.T) {
		n, err := store.CountItemsByNameAndAdder(ctx, "milk", "ALICE")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = store.CountItemsByNameAndAdder(ctx, "Milk", "Bob")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("mark purchased by ids", func(t *testing.T) {
		require.NoError(t, store.MarkItemsPurchased(ctx, []int64{first.ID, second.ID}))

		purchased, err := store.ListPurchasedItems(ctx)
		require.NoError(t, err)
		assert.Len(t, purchased, 2)
	})

	t.Run("list by ids", func(t *testing.T) {
		items, err := store.ListShoppingItemsByIDs(ctx, []int64{second.ID})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Bread", items[0].Name)
	})

	t.Run("update missing id fails", func(t *testing.T) {
		err := store.UpdateShoppingItem(ctx, &models.ShoppingItem{ID: 9999, Name: "x", AddedBy: "y", Quantity: 1})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteShoppingItem(ctx, first.ID))
		count, err := store.CountShoppingItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestBillCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := &models.Bill{
		Name:         "Dinner",
		Total:        money.FromCents(45680),
		Currency:     "$",
		Status:       models.BillUnpaid,
		SplitMethod:  models.SplitCustom,
		Participants: []string{"User1", "User2", "User3"},
		CustomAmounts: []money.Amount{
			money.FromCents(15230),
			money.FromCents(15230),
			money.FromCents(15220),
		},
	}
	require.NoError(t, store.InsertBill(ctx, bill))
	assert.NotEmpty(t, bill.ID)
	assert.NotEmpty(t, bill.CreatedAt)

	t.Run("get preserves participant order and amounts", func(t *testing.T) {
		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, bill.Participants, got.Participants)
		assert.Equal(t, bill.CustomAmounts, got.CustomAmounts)
		assert.Equal(t, bill.Total, got.Total)
	})

	t.Run("duplicate participant names survive", func(t *testing.T) {
		twice := &models.Bill{
			Name:         "Taxi",
			Total:        money.FromCents(2000),
			Currency:     "$",
			Status:       models.BillUnpaid,
			SplitMethod:  models.SplitEqual,
			Participants: []string{"Sam", "Sam"},
		}
		require.NoError(t, store.InsertBill(ctx, twice))

		got, err := store.GetBill(ctx, twice.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sam", "Sam"}, got.Participants)
	})

	t.Run("list by status", func(t *testing.T) {
		unpaid, err := store.ListBillsByStatus(ctx, models.BillUnpaid)
		require.NoError(t, err)
		assert.Len(t, unpaid, 2)

		paid, err := store.ListBillsByStatus(ctx, models.BillPaid)
		require.NoError(t, err)
		assert.Empty(t, paid)
	})

	t.Run("update rewrites participants", func(t *testing.T) {
		createdAt := bill.CreatedAt
		bill.Status = models.BillPaid
		bill.SplitMethod = models.SplitEqual
		bill.Participants = []string{"User1", "User2"}
		bill.CustomAmounts = nil
		// Callers often build the update from a request body that has no
		// creation date; the stored one must survive.
		bill.CreatedAt = ""
		require.NoError(t, store.UpdateBill(ctx, bill))
		bill.CreatedAt = createdAt

		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BillPaid, got.Status)
		assert.Equal(t, []string{"User1", "User2"}, got.Participants)
		assert.Empty(t, got.CustomAmounts)
		assert.Equal(t, createdAt, got.CreatedAt, "creation date is immutable")
	})

	t.Run("update missing id fails", func(t *testing.T) {
		missing := *bill
		missing.ID = "nope"
		err := store.UpdateBill(ctx, &missing)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete cascades participants", func(t *testing.T) {
		require.NoError(t, store.DeleteBill(ctx, bill.ID))
		_, err := store.GetBill(ctx, bill.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestJournal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendJournalRow(ctx, "row one"))
	require.NoError(t, store.AppendJournalRow(ctx, "row two"))

	rows, err := store.ListJournalRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"row one", "row two"}, rows, "rows keep append order")

	require.NoError(t, store.ClearJournal(ctx))
	rows, err = store.ListJournalRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFlags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetFlag(ctx, "first_launch", true)
	require.NoError(t, err)
	assert.True(t, got, "missing flag falls back")

	require.NoError(t, store.SetFlag(ctx, "first_launch", false))
	got, err = store.GetFlag(ctx, "first_launch", true)
	require.NoError(t, err)
	assert.False(t, got)
}
