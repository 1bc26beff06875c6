package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/splitbasket/splitbasket/internal/eventlog"
	"github.com/splitbasket/splitbasket/internal/metrics"
	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// flag key gating shopping-list seed data
const shoppingFirstLaunchKey = "shopping_first_launch"

// ShoppingRepository owns all access to the shared shopping list.
type ShoppingRepository struct {
	store   storage.ShoppingStore
	flags   storage.FlagStore
	log     *eventlog.Log
	metrics *metrics.Metrics
	worker  *worker
	view    *view[models.ShoppingItem]
	state   atomic.Int32
}

// NewShoppingRepository builds the repository and primes the observable view.
func NewShoppingRepository(ctx context.Context, store storage.ShoppingStore, flags storage.FlagStore, log *eventlog.Log, m *metrics.Metrics) (*ShoppingRepository, error) {
	r := &ShoppingRepository{
		store:   store,
		flags:   flags,
		log:     log,
		metrics: m,
		worker:  newWorker(),
		view:    newView[models.ShoppingItem](),
	}
	items, err := store.ListShoppingItems(ctx)
	if err != nil {
		r.worker.close(closeGrace)
		return nil, fmt.Errorf("failed to prime shopping view: %w", err)
	}
	r.view.publish(items)
	return r, nil
}

// EnsureSeedData inserts the fixed seed set exactly once. The persisted
// first-launch flag is the primary gate; an emptiness check catches the case
// where the flag survives but the data was lost, so the store is never left
// empty. Safe to call repeatedly and from multiple entry points.
func (r *ShoppingRepository) EnsureSeedData(ctx context.Context) error {
	if !r.state.CompareAndSwap(stateUninitialized, stateSeeding) {
		return nil
	}
	err := r.worker.run(func() error {
		firstLaunch, err := r.flags.GetFlag(ctx, shoppingFirstLaunchKey, true)
		if err != nil {
			return err
		}
		count, err := r.store.CountShoppingItems(ctx)
		if err != nil {
			return err
		}
		// Seed only into an empty store: the flag alone is not trusted
		// because losing it must not duplicate existing data.
		if count > 0 {
			if firstLaunch {
				return r.flags.SetFlag(ctx, shoppingFirstLaunchKey, false)
			}
			return nil
		}
		if err := r.insertSeedItems(ctx); err != nil {
			return err
		}
		if err := r.flags.SetFlag(ctx, shoppingFirstLaunchKey, false); err != nil {
			return err
		}
		return r.refresh(ctx)
	})
	if err != nil {
		// Allow a later call to retry.
		r.state.Store(stateUninitialized)
		return err
	}
	r.state.Store(stateReady)
	return nil
}

func (r *ShoppingRepository) insertSeedItems(ctx context.Context) error {
	seed := []models.ShoppingItem{
		{Name: "Bread", AddedBy: "Alice", Quantity: 2},
		{Name: "Tissue", AddedBy: "David", Quantity: 1},
		{Name: "Eggs", AddedBy: "Lily", Quantity: 3},
	}
	for i := range seed {
		if err := r.store.InsertShoppingItem(ctx, &seed[i]); err != nil {
			return fmt.Errorf("failed to insert seed item %q: %w", seed[i].Name, err)
		}
	}
	slog.Info("Seeded shopping list", "items", len(seed))
	return nil
}

// Add inserts an item after checking for a case-insensitive duplicate on
// (name, addedBy). A duplicate returns a DuplicateError naming the existing
// entry and inserts nothing; success returns a confirmation message and the
// assigned ID on the item.
func (r *ShoppingRepository) Add(ctx context.Context, item *models.ShoppingItem) (string, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.AddedBy = strings.TrimSpace(item.AddedBy)
	if item.Name == "" {
		return "", storage.Validationf("item name must not be empty")
	}
	if item.Quantity < 1 {
		return "", storage.Validationf("quantity must be at least 1")
	}

	start := time.Now()
	err := r.worker.run(func() error {
		count, err := r.store.CountItemsByNameAndAdder(ctx, item.Name, item.AddedBy)
		if err != nil {
			return err
		}
		if count > 0 {
			return storage.Duplicatef("%s is already added by %s", item.Name, item.AddedBy)
		}
		if err := r.store.InsertShoppingItem(ctx, item); err != nil {
			return err
		}
		r.logEvent(ctx, models.ShoppingListAdd, *item)
		return r.refresh(ctx)
	})
	r.metrics.Observe("shopping", "add", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s added to the shopping list", item.Name), nil
}

// Update replaces an item by ID and logs SHOPPING_LIST_UPDATE.
// Returns storage.ErrNotFound when the ID does not exist.
func (r *ShoppingRepository) Update(ctx context.Context, item models.ShoppingItem) error {
	if item.Name == "" {
		return storage.Validationf("item name must not be empty")
	}
	if item.Quantity < 1 {
		return storage.Validationf("quantity must be at least 1")
	}
	start := time.Now()
	err := r.worker.run(func() error {
		if err := r.store.UpdateShoppingItem(ctx, &item); err != nil {
			return err
		}
		r.logEvent(ctx, models.ShoppingListUpdate, item)
		return r.refresh(ctx)
	})
	r.metrics.Observe("shopping", "update", start, err)
	return err
}

// MarkPurchased sets the purchased flag for the given IDs in one batch and
// logs one SHOPPING_LIST_PURCHASE entry per affected item, each with that
// item's name and quantity.
func (r *ShoppingRepository) MarkPurchased(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	start := time.Now()
	err := r.worker.run(func() error {
		items, err := r.store.ListShoppingItemsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if err := r.store.MarkItemsPurchased(ctx, ids); err != nil {
			return err
		}
		for _, item := range items {
			r.logEvent(ctx, models.ShoppingListPurchase, item)
		}
		return r.refresh(ctx)
	})
	r.metrics.Observe("shopping", "mark_purchased", start, err)
	return err
}

// Delete removes an item and logs SHOPPING_LIST_REMOVE with its name and
// quantity.
func (r *ShoppingRepository) Delete(ctx context.Context, item models.ShoppingItem) error {
	start := time.Now()
	err := r.worker.run(func() error {
		if err := r.store.DeleteShoppingItem(ctx, item.ID); err != nil {
			return err
		}
		r.logEvent(ctx, models.ShoppingListRemove, item)
		return r.refresh(ctx)
	})
	r.metrics.Observe("shopping", "delete", start, err)
	return err
}

// List returns a point-in-time snapshot, unpurchased first.
func (r *ShoppingRepository) List(ctx context.Context) ([]models.ShoppingItem, error) {
	var items []models.ShoppingItem
	err := r.worker.run(func() error {
		var err error
		items, err = r.store.ListShoppingItems(ctx)
		return err
	})
	return items, err
}

// PurchasedItems returns items with the purchased flag set, for the
// inventory-import collaborator.
func (r *ShoppingRepository) PurchasedItems(ctx context.Context) ([]models.ShoppingItem, error) {
	var items []models.ShoppingItem
	err := r.worker.run(func() error {
		var err error
		items, err = r.store.ListPurchasedItems(ctx)
		return err
	})
	return items, err
}

// Observe returns a channel of snapshots plus a cancel function.
func (r *ShoppingRepository) Observe() (<-chan []models.ShoppingItem, func()) {
	return r.view.subscribe()
}

// Close drains pending work with a bounded grace period.
func (r *ShoppingRepository) Close() {
	r.worker.close(closeGrace)
}

func (r *ShoppingRepository) logEvent(ctx context.Context, action models.ActionType, item models.ShoppingItem) {
	if _, err := r.log.AppendQty(ctx, action, item.Name, item.Quantity, item.AddedBy); err != nil {
		slog.Error("Failed to append shopping log entry", "action", action, "error", err)
	}
}

func (r *ShoppingRepository) refresh(ctx context.Context) error {
	items, err := r.store.ListShoppingItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh shopping view: %w", err)
	}
	r.view.publish(items)
	return nil
}
