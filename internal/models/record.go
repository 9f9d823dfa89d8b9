package models

import "time"

// Operation тип локальной мутации записи.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	switch op {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Record представляет версионированную запись.
// Payload is an opaque blob; Version is monotonically increasing per ID and
// is assigned only by the server. Deleted records are kept as tombstones so
// deletions propagate through pulls.
type Record struct {
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Payload   []byte    `json:"payload"`
	Version   int64     `json:"version"`
	Deleted   bool      `json:"deleted"`
}

// Clone создает глубокую копию записи.
func (r *Record) Clone() *Record {
	payload := make([]byte, len(r.Payload))
	copy(payload, r.Payload)

	return &Record{
		ID:        r.ID,
		Payload:   payload,
		Version:   r.Version,
		Deleted:   r.Deleted,
		UpdatedAt: r.UpdatedAt,
	}
}

// Revision tracks the client-side version bookkeeping for one record.
// LocalVersion is a client-local counter bumped on every local write for
// optimistic UI; ServerVersion is the last server-assigned version the client
// has observed. The two advance independently.
type Revision struct {
	UpdatedAt     time.Time `json:"updated_at"`
	RecordID      string    `json:"record_id"`
	Payload       []byte    `json:"payload"`
	LocalVersion  int64     `json:"local_version"`
	ServerVersion int64     `json:"server_version"`
	Deleted       bool      `json:"deleted"`
}
