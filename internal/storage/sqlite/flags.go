package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// GetFlag returns the stored flag value, or fallback when the key is absent.
func (s *SQLiteStore) GetFlag(ctx context.Context, key string, fallback bool) (bool, error) {
	var value int
	err := s.db.QueryRowContext(ctx, "SELECT value FROM app_flags WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to get flag %s: %w", key, err)
	}
	return value != 0, nil
}

// SetFlag stores the flag value.
func (s *SQLiteStore) SetFlag(ctx context.Context, key string, value bool) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO app_flags (key, value) VALUES (?, ?)",
		key, boolToInt(value),
	); err != nil {
		return fmt.Errorf("failed to set flag %s: %w", key, err)
	}
	return nil
}
