package sqlite

import (
	"context"
	"fmt"
)

// AppendJournalRow appends one encoded event-log row. Rows are opaque here;
// the event log owns the encoding.
func (s *SQLiteStore) AppendJournalRow(ctx context.Context, encoded string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT INTO event_journal (entry) VALUES (?)", encoded); err != nil {
		return fmt.Errorf("failed to append journal row: %w", err)
	}
	return nil
}

// ListJournalRows returns all rows in append order (oldest first).
func (s *SQLiteStore) ListJournalRows(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT entry FROM event_journal ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list journal rows: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal rows: %w", err)
	}
	return entries, nil
}

// ClearJournal deletes all rows.
func (s *SQLiteStore) ClearJournal(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM event_journal"); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}
