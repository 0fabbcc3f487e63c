package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cognisance/atelier/internal/identity"
)

// SlotStore implements identity.Slot backed by SQLite.
type SlotStore struct {
	db *DB
}

// NewSlotStore creates a SQLite-backed slot store.
func NewSlotStore(db *DB) *SlotStore {
	return &SlotStore{db: db}
}

var _ identity.Slot = (*SlotStore)(nil)

// Put upserts the slot value.
func (s *SlotStore) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

// Get reads the slot value, returning identity.ErrSlotEmpty when absent.
func (s *SlotStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", identity.ErrSlotEmpty
	}
	if err != nil {
		return "", fmt.Errorf("read slot: %w", err)
	}
	return value, nil
}

// Delete removes the slot value. An absent key is not an error.
func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
