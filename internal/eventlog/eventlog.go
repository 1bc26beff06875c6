// Package eventlog maintains the append-only audit trail of domain
// mutations.
//
// Entries live in the event journal table and in an in-memory cache ordered
// newest first. On disk an entry is either a structured JSON object (the
// only form writers produce) or a legacy delimited string
// "<ts> | <TYPE> | <content> | <user>" left behind by older releases;
// readers accept both. Rows that decode to neither form are skipped so one
// corrupt row never fails a whole load.
package eventlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// Log is the append-only event log. All mutations are serialized behind a
// mutex; reads return copies so a concurrent append never corrupts an
// in-flight read.
type Log struct {
	mu    sync.Mutex
	store storage.JournalStore
	cache []models.LogEntry // newest first
}

// Open loads the persisted journal into the cache. Undecodable rows are
// logged and skipped.
func Open(ctx context.Context, store storage.JournalStore) (*Log, error) {
	rows, err := store.ListJournalRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event journal: %w", err)
	}

	// Journal rows are oldest first; the cache is newest first.
	cache := make([]models.LogEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		entry, err := decodeEntry(rows[i])
		if err != nil {
			slog.Warn("Skipping undecodable journal row", "row", rows[i], "error", err)
			continue
		}
		cache = append(cache, entry)
	}

	return &Log{store: store, cache: cache}, nil
}

// Append records a domain mutation. The description is formatted from the
// action's verb and object ("Alice added bill: Dinner - $ 50.00") without a
// time suffix; the suffix belongs to read-time display. The entry is
// persisted before the cache is touched so a storage failure leaves the
// cache consistent.
func (l *Log) Append(ctx context.Context, action models.ActionType, content, user string) (models.LogEntry, error) {
	entry := models.LogEntry{
		Timestamp:   time.Now().UnixMilli(),
		Action:      action,
		Description: Describe(action, content, user),
		User:        user,
	}

	encoded, err := encodeEntry(entry)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("failed to encode log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.AppendJournalRow(ctx, encoded); err != nil {
		return models.LogEntry{}, fmt.Errorf("failed to persist log entry: %w", err)
	}
	l.cache = append([]models.LogEntry{entry}, l.cache...)
	return entry, nil
}

// AppendQty is Append with the quantity folded into the content,
// e.g. "Milk (2)".
func (l *Log) AppendQty(ctx context.Context, action models.ActionType, content string, quantity int, user string) (models.LogEntry, error) {
	return l.Append(ctx, action, fmt.Sprintf("%s (%d)", content, quantity), user)
}

// All returns a snapshot of every entry, newest first. The returned slice is
// a copy; appending while iterating is safe.
func (l *Log) All() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.LogEntry, len(l.cache))
	copy(out, l.cache)
	return out
}

// Clear deletes every entry from storage and empties the cache.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.ClearJournal(ctx); err != nil {
		return fmt.Errorf("failed to clear event journal: %w", err)
	}
	l.cache = nil
	return nil
}

// Describe formats an entry description from its action type:
// "<user> <verb phrase>: <content>". Unknown action types fall back to the
// raw content.
func Describe(action models.ActionType, content, user string) string {
	phrase, ok := actionPhrases[action]
	if !ok {
		return content
	}
	if user == "" {
		return fmt.Sprintf("%s: %s", phrase, content)
	}
	return fmt.Sprintf("%s %s: %s", user, phrase, content)
}

var actionPhrases = map[models.ActionType]string{
	models.InventoryAdd:    "added inventory",
	models.InventoryRemove: "removed inventory",
	models.InventoryUpdate: "updated inventory",

	models.ShoppingListAdd:      "added to shopping list",
	models.ShoppingListRemove:   "removed from shopping list",
	models.ShoppingListCheck:    "checked item",
	models.ShoppingListPurchase: "purchased item",
	models.ShoppingListUpdate:   "updated item",

	models.BillAdd:    "added bill",
	models.BillUpdate: "updated bill",
	models.BillRemove: "removed bill",
	models.BillPay:    "paid bill",
}

// FormatTimeAgo renders the age of a millisecond timestamp relative to now:
// under an hour in minutes, under a day in hours, otherwise days. Singular
// when the count is 1.
func FormatTimeAgo(timestampMillis int64, now time.Time) string {
	diff := now.UnixMilli() - timestampMillis
	if diff < 0 {
		diff = 0
	}

	minutes := diff / int64(time.Minute/time.Millisecond)
	hours := diff / int64(time.Hour/time.Millisecond)
	days := diff / int64(24*time.Hour/time.Millisecond)

	switch {
	case minutes < 60:
		return pluralize(minutes, "minute") + " ago"
	case hours < 24:
		return pluralize(hours, "hour") + " ago"
	default:
		return pluralize(days, "day") + " ago"
	}
}

// DisplayLine renders an entry for the UI: the stored description plus the
// relative age computed against now. Recomputed on every read so the suffix
// stays accurate without rewriting storage.
func DisplayLine(entry models.LogEntry, now time.Time) string {
	return entry.Description + " | " + FormatTimeAgo(entry.Timestamp, now)
}

func pluralize(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
