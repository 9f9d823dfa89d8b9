package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/syncbox/internal/client/storage"
)

var keyLastPullAt = []byte("last_pull_at")

// SaveCheckpoint persists the server-reported pull time.
// Всегда серверное время, не локальные часы клиента.
func (s *Storage) SaveCheckpoint(ctx context.Context, at time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := at.UTC().MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCheckpoint).Put(keyLastPullAt, data)
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetCheckpoint retrieves the last pull checkpoint.
// Returns the zero time if no pull has completed yet.
func (s *Storage) GetCheckpoint(ctx context.Context) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var at time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketCheckpoint).Get(keyLastPullAt)
		if data == nil {
			return nil
		}
		return at.UnmarshalBinary(data)
	})

	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	return at, nil
}
