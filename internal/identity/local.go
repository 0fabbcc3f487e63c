package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cognisance/atelier/internal/storage/local"
)

const collectionIdentity = "identity"

// slotRecord is the on-disk shape of a slot value.
type slotRecord struct {
	Value   string    `json:"value"`
	SavedAt time.Time `json:"saved_at"`
}

// LocalSlot stores the identity slot as a JSON file. This is the default
// backend when the daemon runs without a database.
type LocalSlot struct {
	store *local.Store
}

// NewLocalSlot creates a file-backed slot rooted at basePath.
func NewLocalSlot(basePath string) (*LocalSlot, error) {
	store, err := local.NewStore(basePath)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}
	return &LocalSlot{store: store}, nil
}

// Put persists the slot value.
func (s *LocalSlot) Put(ctx context.Context, key, value string) error {
	return s.store.Save(collectionIdentity, key, slotRecord{Value: value, SavedAt: time.Now()})
}

// Get reads the slot value, returning ErrSlotEmpty when absent.
func (s *LocalSlot) Get(ctx context.Context, key string) (string, error) {
	var record slotRecord
	if err := s.store.Load(collectionIdentity, key, &record); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return "", ErrSlotEmpty
		}
		return "", err
	}
	return record.Value, nil
}

// Delete removes the slot value. An absent key is not an error.
func (s *LocalSlot) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(collectionIdentity, key); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}
