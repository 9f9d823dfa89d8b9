package storage

import (
	"errors"
	"fmt"
)

// Common client storage errors
var (
	// ErrEntryNotFound indicates that a record or outbox entry was not found
	ErrEntryNotFound = errors.New("entry not found")

	// ErrAuthNotFound indicates that no cached credentials exist
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)

// StaleApplyError reports an attempt to apply a server outcome older than the
// server version already stored for the record. Protects the revision store
// against out-of-order network responses.
type StaleApplyError struct {
	RecordID string
	Stored   int64
	Applied  int64
}

func (e *StaleApplyError) Error() string {
	return fmt.Sprintf("stale apply for record %s: stored server version %d, got %d",
		e.RecordID, e.Stored, e.Applied)
}
