package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/splitbasket/splitbasket/internal/calculator"
	"github.com/splitbasket/splitbasket/internal/eventlog"
	"github.com/splitbasket/splitbasket/internal/metrics"
	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/money"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// flag key gating bill seed data
const billFirstLaunchKey = "bill_first_launch"

// BillRepository owns all access to persisted bills.
type BillRepository struct {
	store   storage.BillStore
	flags   storage.FlagStore
	log     *eventlog.Log
	metrics *metrics.Metrics
	worker  *worker
	view    *view[models.Bill]
	state   atomic.Int32
}

// NewBillRepository builds the repository and primes the observable view.
func NewBillRepository(ctx context.Context, store storage.BillStore, flags storage.FlagStore, log *eventlog.Log, m *metrics.Metrics) (*BillRepository, error) {
	r := &BillRepository{
		store:   store,
		flags:   flags,
		log:     log,
		metrics: m,
		worker:  newWorker(),
		view:    newView[models.Bill](),
	}
	bills, err := store.ListBills(ctx)
	if err != nil {
		r.worker.close(closeGrace)
		return nil, fmt.Errorf("failed to prime bill view: %w", err)
	}
	r.view.publish(bills)
	return r, nil
}

// EnsureSeedData inserts the default bills exactly once, gated by the
// persisted first-launch flag with an emptiness fallback. No-op once Ready.
func (r *BillRepository) EnsureSeedData(ctx context.Context) error {
	if !r.state.CompareAndSwap(stateUninitialized, stateSeeding) {
		return nil
	}
	err := r.worker.run(func() error {
		firstLaunch, err := r.flags.GetFlag(ctx, billFirstLaunchKey, true)
		if err != nil {
			return err
		}
		count, err := r.store.CountBills(ctx)
		if err != nil {
			return err
		}
		// Seed only into an empty store: the flag alone is not trusted
		// because losing it must not duplicate existing data.
		if count > 0 {
			if firstLaunch {
				return r.flags.SetFlag(ctx, billFirstLaunchKey, false)
			}
			return nil
		}
		if err := r.insertSeedBills(ctx); err != nil {
			return err
		}
		if err := r.flags.SetFlag(ctx, billFirstLaunchKey, false); err != nil {
			return err
		}
		return r.refresh(ctx)
	})
	if err != nil {
		r.state.Store(stateUninitialized)
		return err
	}
	r.state.Store(stateReady)
	return nil
}

func (r *BillRepository) insertSeedBills(ctx context.Context) error {
	seed := []models.Bill{
		{
			ID:           "unpaid_bill_1",
			Name:         "Weekend Party",
			Total:        money.FromCents(38950),
			Currency:     "$",
			Status:       models.BillUnpaid,
			SplitMethod:  models.SplitEqual,
			Participants: []string{"User1", "User2", "User3", "User4"},
			CreatedAt:    "2024-01-01",
		},
		{
			ID:           "paid_bill_1",
			Name:         "Daily Shopping",
			Total:        money.FromCents(12830),
			Currency:     "$",
			Status:       models.BillPaid,
			SplitMethod:  models.SplitEqual,
			Participants: []string{"User1", "User2", "User3", "User4"},
			CreatedAt:    "2024-01-02",
		},
		{
			ID:           "paid_bill_2",
			Name:         "Dinner",
			Total:        money.FromCents(45680),
			Currency:     "$",
			Status:       models.BillPaid,
			SplitMethod:  models.SplitCustom,
			Participants: []string{"User1", "User2", "User3"},
			CustomAmounts: []money.Amount{
				money.FromCents(15230),
				money.FromCents(15230),
				money.FromCents(15220),
			},
			CreatedAt: "2024-01-03",
		},
	}
	for i := range seed {
		if err := r.store.InsertBill(ctx, &seed[i]); err != nil {
			return fmt.Errorf("failed to insert seed bill %q: %w", seed[i].Name, err)
		}
	}
	slog.Info("Seeded bills", "bills", len(seed))
	return nil
}

// Add validates and inserts a bill, logging BILL_ADD with "<name> - <amount>".
// In custom mode the total is derived from the per-participant amounts, each
// of which must be strictly positive; in equal mode at least one participant
// is required. Validation happens before the write is queued.
func (r *BillRepository) Add(ctx context.Context, bill *models.Bill) error {
	if err := r.prepare(bill); err != nil {
		return err
	}
	start := time.Now()
	err := r.worker.run(func() error {
		if err := r.store.InsertBill(ctx, bill); err != nil {
			return err
		}
		r.logEvent(ctx, models.BillAdd, *bill)
		return r.refresh(ctx)
	})
	r.metrics.Observe("bills", "add", start, err)
	return err
}

// Update replaces a bill by ID and logs BILL_UPDATE.
// Returns storage.ErrNotFound when the ID does not exist.
func (r *BillRepository) Update(ctx context.Context, bill models.Bill) error {
	if err := r.prepare(&bill); err != nil {
		return err
	}
	start := time.Now()
	err := r.worker.run(func() error {
		if err := r.store.UpdateBill(ctx, &bill); err != nil {
			return err
		}
		r.logEvent(ctx, models.BillUpdate, bill)
		return r.refresh(ctx)
	})
	r.metrics.Observe("bills", "update", start, err)
	return err
}

// Delete removes a bill by ID. The BILL_REMOVE entry captures the
// pre-deletion name and amount, fetched before the row disappears. Missing
// IDs are a no-op with no log entry.
func (r *BillRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.worker.run(func() error {
		bill, err := r.store.GetBill(ctx, id)
		if err != nil {
			if storage.IsNotFound(err) {
				return nil
			}
			return err
		}
		if err := r.store.DeleteBill(ctx, id); err != nil {
			return err
		}
		r.logEvent(ctx, models.BillRemove, *bill)
		return r.refresh(ctx)
	})
	r.metrics.Observe("bills", "delete", start, err)
	return err
}

// MarkPaid transitions a bill to Paid and logs BILL_PAY.
// Returns storage.ErrNotFound when the ID does not exist.
func (r *BillRepository) MarkPaid(ctx context.Context, id string) error {
	start := time.Now()
	err := r.worker.run(func() error {
		bill, err := r.store.GetBill(ctx, id)
		if err != nil {
			return err
		}
		bill.Status = models.BillPaid
		if err := r.store.UpdateBill(ctx, bill); err != nil {
			return err
		}
		r.logEvent(ctx, models.BillPay, *bill)
		return r.refresh(ctx)
	})
	r.metrics.Observe("bills", "mark_paid", start, err)
	return err
}

// List returns a point-in-time snapshot of all bills.
func (r *BillRepository) List(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.worker.run(func() error {
		var err error
		bills, err = r.store.ListBills(ctx)
		return err
	})
	return bills, err
}

// Unpaid returns bills with status Unpaid.
func (r *BillRepository) Unpaid(ctx context.Context) ([]models.Bill, error) {
	return r.listByStatus(ctx, models.BillUnpaid)
}

// Paid returns bills with status Paid.
func (r *BillRepository) Paid(ctx context.Context) ([]models.Bill, error) {
	return r.listByStatus(ctx, models.BillPaid)
}

func (r *BillRepository) listByStatus(ctx context.Context, status string) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.worker.run(func() error {
		var err error
		bills, err = r.store.ListBillsByStatus(ctx, status)
		return err
	})
	return bills, err
}

// GetByID retrieves one bill. Returns storage.ErrNotFound when absent.
func (r *BillRepository) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	var bill *models.Bill
	err := r.worker.run(func() error {
		var err error
		bill, err = r.store.GetBill(ctx, id)
		return err
	})
	return bill, err
}

// Observe returns a channel of snapshots plus a cancel function.
func (r *BillRepository) Observe() (<-chan []models.Bill, func()) {
	return r.view.subscribe()
}

// Close drains pending work with a bounded grace period.
func (r *BillRepository) Close() {
	r.worker.close(closeGrace)
}

// prepare validates the bill and normalizes derived fields before it enters
// the write queue.
func (r *BillRepository) prepare(bill *models.Bill) error {
	if bill.Name == "" {
		return storage.Validationf("bill name must not be empty")
	}
	if len(bill.Participants) == 0 {
		return storage.Validationf("bill must have at least one participant")
	}
	if bill.Currency == "" {
		bill.Currency = "$"
	}
	if bill.Status == "" {
		bill.Status = models.BillUnpaid
	}

	switch bill.SplitMethod {
	case models.SplitCustom:
		if len(bill.CustomAmounts) != len(bill.Participants) {
			return storage.Validationf("each participant needs a custom amount")
		}
		// The total is always derived in custom mode.
		total, err := calculator.CustomSplit(bill.CustomAmounts)
		if err != nil {
			return storage.Validationf("%v", err)
		}
		bill.Total = total
	case models.SplitEqual, "":
		bill.SplitMethod = models.SplitEqual
		if bill.Total <= 0 {
			return storage.Validationf("bill total must be positive")
		}
	default:
		return storage.Validationf("unknown split method %q", bill.SplitMethod)
	}
	return nil
}

func (r *BillRepository) logEvent(ctx context.Context, action models.ActionType, bill models.Bill) {
	content := fmt.Sprintf("%s - %s", bill.Name, bill.DisplayAmount())
	if _, err := r.log.Append(ctx, action, content, ""); err != nil {
		slog.Error("Failed to append bill log entry", "action", action, "error", err)
	}
}

func (r *BillRepository) refresh(ctx context.Context) error {
	bills, err := r.store.ListBills(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh bill view: %w", err)
	}
	r.view.publish(bills)
	return nil
}
