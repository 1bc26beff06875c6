package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/splitbasket/splitbasket/internal/eventlog"
	"github.com/splitbasket/splitbasket/internal/metrics"
	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// InventoryRepository owns all access to persisted inventory items. One
// instance exists per process, constructed by the composition root; nothing
// else may touch the underlying table.
type InventoryRepository struct {
	store   storage.InventoryStore
	log     *eventlog.Log
	metrics *metrics.Metrics
	worker  *worker
	view    *view[models.InventoryItem]
	state   atomic.Int32
}

// NewInventoryRepository builds the repository and primes the observable
// view from the store.
func NewInventoryRepository(ctx context.Context, store storage.InventoryStore, log *eventlog.Log, m *metrics.Metrics) (*InventoryRepository, error) {
	r := &InventoryRepository{
		store:   store,
		log:     log,
		metrics: m,
		worker:  newWorker(),
		view:    newView[models.InventoryItem](),
	}
	items, err := store.ListInventoryItems(ctx)
	if err != nil {
		r.worker.close(closeGrace)
		return nil, fmt.Errorf("failed to prime inventory view: %w", err)
	}
	r.view.publish(items)
	return r, nil
}

// EnsureSeedData marks the store seeded. The inventory starts empty by
// design, so there is nothing to insert, but the lifecycle transition keeps
// it symmetric with the other repositories.
func (r *InventoryRepository) EnsureSeedData(ctx context.Context) error {
	if !r.state.CompareAndSwap(stateUninitialized, stateSeeding) {
		return nil
	}
	defer r.state.Store(stateReady)
	return nil
}

// Add inserts an item, replacing any existing row with the same ID, and logs
// INVENTORY_ADD. Validation failures reject before the write is queued.
func (r *InventoryRepository) Add(ctx context.Context, item *models.InventoryItem) error {
	if err := validateInventoryItem(*item); err != nil {
		return err
	}
	start := time.Now()
	err := r.worker.run(func() error {
		if err := r.store.InsertInventoryItem(ctx, item); err != nil {
			return err
		}
		r.logEvent(ctx, models.InventoryAdd, *item)
		return r.refresh(ctx)
	})
	r.metrics.Observe("inventory", "add", start, err)
	return err
}

// Update replaces an item by ID and logs INVENTORY_UPDATE.
// Returns storage.ErrNotFound when the ID does not exist.
func (r *InventoryRepository) Update(ctx context.Context, item models.InventoryItem) error {
	if err := validateInventoryItem(item); err != nil {
		return err
	}
	start := time.Now()
	err := r.worker.run(func() error {
		if err := r.store.UpdateInventoryItem(ctx, &item); err != nil {
			return err
		}
		r.logEvent(ctx, models.InventoryUpdate, item)
		return r.refresh(ctx)
	})
	r.metrics.Observe("inventory", "update", start, err)
	return err
}

// Remove deletes an item by ID. Missing IDs are a no-op and produce no log
// entry; otherwise INVENTORY_REMOVE captures the pre-deletion name,
// quantity, and category.
func (r *InventoryRepository) Remove(ctx context.Context, id string) error {
	start := time.Now()
	err := r.worker.run(func() error {
		item, err := r.store.GetInventoryItem(ctx, id)
		if err != nil {
			if storage.IsNotFound(err) {
				return nil
			}
			return err
		}
		if err := r.store.DeleteInventoryItem(ctx, id); err != nil {
			return err
		}
		r.logEvent(ctx, models.InventoryRemove, *item)
		return r.refresh(ctx)
	})
	r.metrics.Observe("inventory", "remove", start, err)
	return err
}

// List returns a point-in-time snapshot reflecting all committed writes.
func (r *InventoryRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.worker.run(func() error {
		var err error
		items, err = r.store.ListInventoryItems(ctx)
		return err
	})
	return items, err
}

// GetByID retrieves one item. Returns storage.ErrNotFound when absent.
func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item *models.InventoryItem
	err := r.worker.run(func() error {
		var err error
		item, err = r.store.GetInventoryItem(ctx, id)
		return err
	})
	return item, err
}

// Observe returns a channel that yields the current snapshot immediately
// and a fresh one after every committed write, plus a cancel function.
func (r *InventoryRepository) Observe() (<-chan []models.InventoryItem, func()) {
	return r.view.subscribe()
}

// ExpiringWithin returns items that expire after now and within the next
// days*24h, for the reminder collaborator.
func (r *InventoryRepository) ExpiringWithin(ctx context.Context, days int) ([]models.InventoryItem, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var expiring []models.InventoryItem
	for _, item := range items {
		if item.ExpiresWithin(now, days) {
			expiring = append(expiring, item)
		}
	}
	return expiring, nil
}

// Close drains pending work with a bounded grace period.
func (r *InventoryRepository) Close() {
	r.worker.close(closeGrace)
}

// logEvent appends the audit entry for an item mutation. Log failures are
// reported but never fail the write that produced them.
func (r *InventoryRepository) logEvent(ctx context.Context, action models.ActionType, item models.InventoryItem) {
	content := fmt.Sprintf("%s x%d | %s", item.Name, item.Quantity, item.Category)
	if _, err := r.log.Append(ctx, action, content, ""); err != nil {
		slog.Error("Failed to append inventory log entry", "action", action, "error", err)
	}
}

func (r *InventoryRepository) refresh(ctx context.Context) error {
	items, err := r.store.ListInventoryItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh inventory view: %w", err)
	}
	r.view.publish(items)
	return nil
}

func validateInventoryItem(item models.InventoryItem) error {
	if item.Name == "" {
		return storage.Validationf("item name must not be empty")
	}
	if item.Quantity < 0 {
		return storage.Validationf("quantity must not be negative")
	}
	return nil
}
