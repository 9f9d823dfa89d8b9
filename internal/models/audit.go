package models

import "time"

// PushStatus результат обработки одной записи push.
type PushStatus string

const (
	StatusAccepted   PushStatus = "accepted"
	StatusRejected   PushStatus = "rejected"
	StatusConflicted PushStatus = "conflicted"
)

// Resolution способ разрешения конфликта.
type Resolution string

const (
	ResolutionClientWins Resolution = "client_wins"
	ResolutionServerWins Resolution = "server_wins"
	ResolutionMerged     Resolution = "merged"
	ResolutionManual     Resolution = "manual"
)

// PushOutcome is the definitive result of resolving one pushed entry.
// The resolver always returns one: accepted with the newly assigned version,
// rejected with a reason, or conflicted with the applied version and the
// resolution that produced it.
type PushOutcome struct {
	RecordID   string
	Status     PushStatus
	Resolution Resolution // set when Status is StatusConflicted
	Reason     string     // set when Status is StatusRejected
	Version    int64
}

// ConflictRecord fixes a detected conflict for later auditing: which client
// version lost (or won) against which server version, and how it was
// resolved. Retained append-only alongside the audit log.
type ConflictRecord struct {
	OccurredAt    time.Time
	RecordID      string
	ClientID      string
	Resolution    Resolution
	ClientVersion int64 // the base version the client pushed with
	ServerVersion int64 // the authoritative version at resolution time
}

// AuditLogEntry представляет одну строку журнала аудита.
// Written for every push outcome; never mutated or deleted.
type AuditLogEntry struct {
	Timestamp        time.Time
	Action           string // accepted, rejected, conflicted
	RecordID         string
	Actor            string // client ID that issued the mutation
	ResultingVersion int64
}

// ClientAccount представляет зарегистрированный клиент.
// SecretHash is a bcrypt hash of the client secret.
type ClientAccount struct {
	CreatedAt  time.Time
	ID         string
	Name       string
	SecretHash string
}
