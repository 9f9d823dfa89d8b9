package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that no record exists for the id
	ErrRecordNotFound = errors.New("record not found")

	// ErrVersionMismatch indicates that a compare-and-swap failed because
	// the expected version no longer matches the stored one. This is the
	// signal the conflict resolver acts on, never a crash.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrKeyNotFound indicates that an idempotency key has not been seen
	ErrKeyNotFound = errors.New("idempotency key not found")

	// ErrClientNotFound indicates that client account was not found
	ErrClientNotFound = errors.New("client not found")

	// ErrClientAlreadyExists indicates that client name is already taken
	ErrClientAlreadyExists = errors.New("client already exists")
)
