package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/models"
)

// outboxItem is the stored form of an outbox entry. Seq fixes the append
// order; it is assigned on first append and survives coalescing so retried
// batches keep a stable order. InFlight marks entries handed to a push cycle:
// only in-flight entries may be acknowledged, and a local write landing on an
// in-flight record starts a fresh slot instead of folding into something
// already on the wire.
type outboxItem struct {
	Entry    *models.OutboxEntry `json:"entry"`
	Seq      uint64              `json:"seq"`
	InFlight bool                `json:"in_flight,omitempty"`
}

// Append stores a pending mutation keyed by record ID.
// Если для записи уже есть неотправленный entry, они коалесцируются:
// новый payload и операция заменяют старые, base version и idempotency key
// остаются от первого entry. Queue держит не более одного entry на запись.
//
// An in-flight entry is never coalesced into: its bytes may already be on the
// wire, so the new mutation replaces the slot as a fresh queued entry and the
// pending acknowledgment becomes void. A delete coalescing into an unsent
// create drops the slot entirely.
func (s *Storage) Append(ctx context.Context, entry *models.OutboxEntry) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOutbox)
		key := []byte(entry.RecordID)

		if data := bucket.Get(key); data != nil {
			existing := &outboxItem{}
			if err := json.Unmarshal(data, existing); err != nil {
				return fmt.Errorf("failed to unmarshal outbox item: %w", err)
			}

			if !existing.InFlight {
				existing.Entry = existing.Entry.Coalesce(entry)
				if existing.Entry == nil {
					// Create cancelled by a delete before it was ever sent.
					return bucket.Delete(key)
				}

				merged, err := json.Marshal(existing)
				if err != nil {
					return fmt.Errorf("failed to marshal outbox item: %w", err)
				}

				return bucket.Put(key, merged)
			}
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}

		item := &outboxItem{Seq: seq, Entry: entry.Clone()}
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal outbox item: %w", err)
		}

		return bucket.Put(key, data)
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// DrainBatch returns up to maxSize entries in append order and marks them
// in-flight. Entries leave the outbox only through Acknowledge, so a lost
// push response leaves everything in place for the retry; entries still
// in-flight from a failed cycle are returned again.
func (s *Storage) DrainBatch(ctx context.Context, maxSize int) ([]*models.OutboxEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	entries := []*models.OutboxEntry{}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOutbox)

		items := []*outboxItem{}
		err := bucket.ForEach(func(k, v []byte) error {
			item := &outboxItem{}
			if err := json.Unmarshal(v, item); err != nil {
				return fmt.Errorf("failed to unmarshal outbox item %s: %w", k, err)
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return err
		}

		sort.Slice(items, func(i, j int) bool { return items[i].Seq < items[j].Seq })

		if maxSize > 0 && len(items) > maxSize {
			items = items[:maxSize]
		}

		for _, item := range items {
			item.InFlight = true
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("failed to marshal outbox item: %w", err)
			}
			if err := bucket.Put([]byte(item.Entry.RecordID), data); err != nil {
				return fmt.Errorf("failed to mark entry in-flight: %w", err)
			}
			entries = append(entries, item.Entry)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Acknowledge removes the in-flight entry for a record.
// Подтверждение отсутствующей записи это no-op, не ошибка.
//
// A queued entry that replaced an in-flight one survives: the acknowledgment
// belongs to the entry that was pushed, not to the edit that arrived after
// the batch left.
func (s *Storage) Acknowledge(ctx context.Context, recordID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOutbox)
		key := []byte(recordID)

		data := bucket.Get(key)
		if data == nil {
			return nil
		}

		item := &outboxItem{}
		if err := json.Unmarshal(data, item); err != nil {
			return fmt.Errorf("failed to unmarshal outbox item: %w", err)
		}
		if !item.InFlight {
			return nil
		}

		return bucket.Delete(key)
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// Len returns the number of pending entries
func (s *Storage) Len(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketOutbox).Stats().KeyN
		return nil
	})

	if err != nil {
		return 0, err
	}

	return count, nil
}
