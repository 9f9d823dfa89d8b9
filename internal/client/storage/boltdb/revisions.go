package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/models"
)

// RecordLocalWrite stores the payload and bumps the client-local version.
// Сервер version не трогаем: его присваивает только сервер.
func (s *Storage) RecordLocalWrite(ctx context.Context, id string, payload []byte, deleted bool) (*models.Revision, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var result *models.Revision

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevisions)

		rev := &models.Revision{RecordID: id}
		if data := bucket.Get([]byte(id)); data != nil {
			if err := json.Unmarshal(data, rev); err != nil {
				return fmt.Errorf("failed to unmarshal revision: %w", err)
			}
		}

		rev.Payload = payload
		rev.Deleted = deleted
		rev.LocalVersion++
		rev.UpdatedAt = time.Now()

		data, err := json.Marshal(rev)
		if err != nil {
			return fmt.Errorf("failed to marshal revision: %w", err)
		}

		if err := bucket.Put([]byte(id), data); err != nil {
			return fmt.Errorf("failed to save revision: %w", err)
		}

		result = rev
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("transaction failed: %w", err)
	}

	return result, nil
}

// ApplyServerOutcome sets the server version after a push outcome.
// Returns StaleApplyError if the stored server version is already newer,
// which happens when network responses arrive out of order.
func (s *Storage) ApplyServerOutcome(ctx context.Context, id string, version int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevisions)

		rev := &models.Revision{RecordID: id}
		if data := bucket.Get([]byte(id)); data != nil {
			if err := json.Unmarshal(data, rev); err != nil {
				return fmt.Errorf("failed to unmarshal revision: %w", err)
			}
		}

		if rev.ServerVersion > version {
			return &storage.StaleApplyError{
				RecordID: id,
				Stored:   rev.ServerVersion,
				Applied:  version,
			}
		}

		rev.ServerVersion = version

		data, err := json.Marshal(rev)
		if err != nil {
			return fmt.Errorf("failed to marshal revision: %w", err)
		}

		if err := bucket.Put([]byte(id), data); err != nil {
			return fmt.Errorf("failed to save revision: %w", err)
		}

		return nil
	})
}

// ApplyPulledRecord overwrites payload and server version unconditionally.
// Pulled records are server-authoritative by construction, so no comparison
// is performed here.
func (s *Storage) ApplyPulledRecord(ctx context.Context, record *models.Record) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevisions)

		rev := &models.Revision{RecordID: record.ID}
		if data := bucket.Get([]byte(record.ID)); data != nil {
			if err := json.Unmarshal(data, rev); err != nil {
				return fmt.Errorf("failed to unmarshal revision: %w", err)
			}
		}

		rev.Payload = record.Payload
		rev.Deleted = record.Deleted
		rev.ServerVersion = record.Version
		rev.UpdatedAt = record.UpdatedAt

		data, err := json.Marshal(rev)
		if err != nil {
			return fmt.Errorf("failed to marshal revision: %w", err)
		}

		if err := bucket.Put([]byte(record.ID), data); err != nil {
			return fmt.Errorf("failed to save revision: %w", err)
		}

		return nil
	})
}

// GetRevision retrieves the revision for a record by ID
func (s *Storage) GetRevision(ctx context.Context, id string) (*models.Revision, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var rev *models.Revision

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevisions)

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrEntryNotFound
		}

		rev = &models.Revision{}
		if err := json.Unmarshal(data, rev); err != nil {
			return fmt.Errorf("failed to unmarshal revision: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return rev, nil
}

// ListRevisions returns all locally known revisions, tombstones included
func (s *Storage) ListRevisions(ctx context.Context) ([]*models.Revision, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	revisions := []*models.Revision{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevisions)

		return bucket.ForEach(func(k, v []byte) error {
			rev := &models.Revision{}
			if err := json.Unmarshal(v, rev); err != nil {
				return fmt.Errorf("failed to unmarshal revision %s: %w", k, err)
			}
			revisions = append(revisions, rev)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return revisions, nil
}
