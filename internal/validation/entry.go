package validation

import (
	"fmt"
	"regexp"

	"github.com/iudanet/syncbox/internal/models"
)

// RecordIDPattern определяет допустимый формат идентификатора записи
// Латинские буквы, цифры, дефис и нижнее подчеркивание, длина 1-64 символа
var RecordIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

const (
	// MaxRecordIDLen максимальная длина идентификатора записи
	MaxRecordIDLen = 64
	// MaxPayloadSize максимальный размер payload одной записи (1 MiB)
	MaxPayloadSize = 1 << 20
	// MaxIdempotencyKeyLen максимальная длина idempotency key
	MaxIdempotencyKeyLen = 64
)

// ValidationError marks a push entry as permanently malformed. Entries failing
// validation are rejected for good: the client acknowledges them and surfaces
// the failure to the caller instead of retrying.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateEntry проверяет одну запись push перед обработкой.
// Returns *ValidationError describing the first problem found.
func ValidateEntry(entry *models.OutboxEntry) error {
	if entry.RecordID == "" {
		return &ValidationError{Field: "record_id", Reason: "cannot be empty"}
	}

	if !RecordIDPattern.MatchString(entry.RecordID) {
		return &ValidationError{
			Field:  "record_id",
			Reason: fmt.Sprintf("must match %s", RecordIDPattern.String()),
		}
	}

	if !entry.Operation.Valid() {
		return &ValidationError{
			Field:  "operation",
			Reason: fmt.Sprintf("unknown operation %q", entry.Operation),
		}
	}

	if entry.IdempotencyKey == "" {
		return &ValidationError{Field: "idempotency_key", Reason: "cannot be empty"}
	}

	if len(entry.IdempotencyKey) > MaxIdempotencyKeyLen {
		return &ValidationError{
			Field:  "idempotency_key",
			Reason: fmt.Sprintf("must not exceed %d characters", MaxIdempotencyKeyLen),
		}
	}

	if entry.BaseVersion < 0 {
		return &ValidationError{Field: "base_version", Reason: "cannot be negative"}
	}

	if len(entry.Payload) > MaxPayloadSize {
		return &ValidationError{
			Field:  "payload",
			Reason: fmt.Sprintf("must not exceed %d bytes", MaxPayloadSize),
		}
	}

	if entry.Operation != models.OpDelete && len(entry.Payload) == 0 {
		return &ValidationError{Field: "payload", Reason: "cannot be empty"}
	}

	return nil
}
