package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/money"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// InsertBill persists a new bill with its participants in one transaction.
func (s *SQLiteStore) InsertBill(ctx context.Context, bill *models.Bill) error {
	// Generate ID and creation date if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == "" {
		bill.CreatedAt = time.Now().Format("2006-01-02")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, name, total_cents, currency, status, split_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Name, bill.Total.Cents(), bill.Currency, bill.Status, bill.SplitMethod, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertParticipants(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateBill replaces a bill by ID, rewriting its participant rows.
// Returns storage.ErrNotFound when the ID does not exist.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// created_at is immutable, like the other stores' creation columns.
	res, err := tx.ExecContext(ctx,
		`UPDATE bills
		 SET name = ?, total_cents = ?, currency = ?, status = ?, split_method = ?
		 WHERE id = ?`,
		bill.Name, bill.Total.Cents(), bill.Currency, bill.Status, bill.SplitMethod, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %s: %w", bill.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_participants WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear bill participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBill removes a bill by ID. Participant rows cascade.
// Missing IDs are a no-op.
func (s *SQLiteStore) DeleteBill(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID, including participants and any custom
// amounts.
func (s *SQLiteStore) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	bill := &models.Bill{}
	var totalCents int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, total_cents, currency, status, split_method, created_at FROM bills WHERE id = ?",
		id,
	).Scan(&bill.ID, &bill.Name, &totalCents, &bill.Currency, &bill.Status, &bill.SplitMethod, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Total = money.FromCents(totalCents)

	if err := s.loadParticipants(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// ListBills returns all bills.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.queryBills(ctx,
		"SELECT id, name, total_cents, currency, status, split_method, created_at FROM bills")
}

// ListBillsByStatus returns bills filtered by status.
func (s *SQLiteStore) ListBillsByStatus(ctx context.Context, status string) ([]models.Bill, error) {
	return s.queryBills(ctx,
		"SELECT id, name, total_cents, currency, status, split_method, created_at FROM bills WHERE status = ?",
		status)
}

// CountBills returns the number of stored bills.
func (s *SQLiteStore) CountBills(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bills").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) queryBills(ctx context.Context, query string, args ...any) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		var totalCents int64
		if err := rows.Scan(&bill.ID, &bill.Name, &totalCents, &bill.Currency, &bill.Status, &bill.SplitMethod, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill.Total = money.FromCents(totalCents)
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	for i := range bills {
		if err := s.loadParticipants(ctx, &bills[i]); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

// loadParticipants fills in the ordered participant list and custom amounts
// for a bill. Position preserves insertion order because participants are
// deliberately not deduplicated.
func (s *SQLiteStore) loadParticipants(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, custom_amount_cents FROM bill_participants WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get bill participants: %w", err)
	}
	defer rows.Close()

	bill.Participants = nil
	bill.CustomAmounts = nil
	for rows.Next() {
		var name string
		var cents sql.NullInt64
		if err := rows.Scan(&name, &cents); err != nil {
			return fmt.Errorf("failed to scan bill participant: %w", err)
		}
		bill.Participants = append(bill.Participants, name)
		if cents.Valid {
			bill.CustomAmounts = append(bill.CustomAmounts, money.FromCents(cents.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate bill participants: %w", err)
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for i, name := range bill.Participants {
		var cents any
		if bill.SplitMethod == models.SplitCustom && i < len(bill.CustomAmounts) {
			cents = bill.CustomAmounts[i].Cents()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_participants (bill_id, position, name, custom_amount_cents) VALUES (?, ?, ?, ?)",
			bill.ID, i, name, cents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill participant: %w", err)
		}
	}
	return nil
}
