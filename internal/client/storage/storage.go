package storage

import (
	"context"
	"time"

	"github.com/iudanet/syncbox/internal/models"
)

//go:generate moq -out revisions_mock.go . RevisionStore

// RevisionStore defines the interface for per-record version bookkeeping on
// the client. It maps record_id to (local_version, server_version, payload).
type RevisionStore interface {
	// RecordLocalWrite stores the payload and increments the client-local
	// version counter. The server version is left untouched.
	RecordLocalWrite(ctx context.Context, id string, payload []byte, deleted bool) (*models.Revision, error)

	// ApplyServerOutcome sets the server version for a record after a push
	// outcome. Returns StaleApplyError if the outcome carries a version older
	// than the currently stored one (out-of-order network responses).
	ApplyServerOutcome(ctx context.Context, id string, version int64) error

	// ApplyPulledRecord overwrites the local payload and server version
	// unconditionally. Pulled records are server-authoritative.
	ApplyPulledRecord(ctx context.Context, record *models.Record) error

	// GetRevision retrieves the revision for a record.
	// Returns ErrEntryNotFound if the record is unknown locally.
	GetRevision(ctx context.Context, id string) (*models.Revision, error)

	// ListRevisions returns all locally known revisions, tombstones included.
	ListRevisions(ctx context.Context) ([]*models.Revision, error)
}

//go:generate moq -out outbox_mock.go . Outbox

// Outbox defines the durable queue of local mutations awaiting transmission.
// At most one pending entry exists per record: appends for a record that
// already has an unsent entry are coalesced.
type Outbox interface {
	// Append stores a pending mutation. If an unsent entry for the same
	// record exists, the newer payload replaces it while the original base
	// version and idempotency key are preserved. If the existing entry is
	// in flight, the mutation starts a fresh queued entry instead.
	Append(ctx context.Context, entry *models.OutboxEntry) error

	// DrainBatch returns up to maxSize entries in append order and marks
	// them in flight. Entries are removed only by Acknowledge, so a failed
	// push is safe to retry.
	DrainBatch(ctx context.Context, maxSize int) ([]*models.OutboxEntry, error)

	// Acknowledge removes the in-flight entry for a record. Acknowledging a
	// missing record, or one whose in-flight entry was already replaced by
	// a newer queued entry, is a no-op.
	Acknowledge(ctx context.Context, recordID string) error

	// Len returns the number of pending entries.
	Len(ctx context.Context) (int, error)
}

//go:generate moq -out checkpoint_mock.go . CheckpointStore

// CheckpointStore defines the interface for the pull checkpoint.
type CheckpointStore interface {
	// SaveCheckpoint persists the server-reported pull time. Called only
	// after a pull completed successfully.
	SaveCheckpoint(ctx context.Context, at time.Time) error

	// GetCheckpoint retrieves the last pull checkpoint.
	// Returns the zero time if no pull has completed yet.
	GetCheckpoint(ctx context.Context) (time.Time, error)
}
