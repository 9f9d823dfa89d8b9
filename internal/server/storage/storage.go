package storage

import (
	"context"
	"time"

	"github.com/iudanet/syncbox/internal/models"
)

// RecordStorage defines the authoritative record ledger.
// Versions form a strictly increasing sequence per record id; they are
// assigned only here and only through the compare-and-swap in PutRecord.
type RecordStorage interface {
	// GetRecord retrieves the current record by ID
	// Returns ErrRecordNotFound if no record exists
	GetRecord(ctx context.Context, id string) (*models.Record, error)

	// PutRecord atomically writes the record if its current version equals
	// expectedVersion (0 means "must not exist"). Returns the newly
	// assigned version, or ErrVersionMismatch when the CAS fails.
	// Concurrent pushes touching the same id serialize through this call.
	PutRecord(ctx context.Context, id string, payload []byte, deleted bool, expectedVersion int64) (int64, error)

	// ScanSince returns all records (tombstones included) updated after
	// the given time, for pull queries.
	ScanSince(ctx context.Context, since time.Time) ([]*models.Record, error)
}

// AuditStorage defines the append-only audit log.
// No update or delete operations exist by design: compliance requires
// immutability. A failed append is fatal to the push being processed.
type AuditStorage interface {
	// AppendAudit writes one audit log entry
	AppendAudit(ctx context.Context, entry *models.AuditLogEntry) error

	// AppendConflict writes one conflict record
	AppendConflict(ctx context.Context, record *models.ConflictRecord) error

	// ListConflicts returns conflict records, newest first, up to limit
	ListConflicts(ctx context.Context, limit int) ([]*models.ConflictRecord, error)
}

// IdempotencyStorage remembers processed push entries so replayed requests
// are recognized instead of re-applied.
type IdempotencyStorage interface {
	// GetOutcome returns the stored outcome for an idempotency key
	// Returns ErrKeyNotFound if the key has not been seen
	GetOutcome(ctx context.Context, key string) (*models.PushOutcome, error)

	// SaveOutcome stores the outcome for an idempotency key
	SaveOutcome(ctx context.Context, key string, outcome *models.PushOutcome) error
}

// ClientStorage defines persistence for registered clients.
type ClientStorage interface {
	// CreateClient stores a new client account
	// Returns ErrClientAlreadyExists if the name is taken
	CreateClient(ctx context.Context, client *models.ClientAccount) error

	// GetClientByName retrieves a client account by name
	// Returns ErrClientNotFound if no such client exists
	GetClientByName(ctx context.Context, name string) (*models.ClientAccount, error)
}
