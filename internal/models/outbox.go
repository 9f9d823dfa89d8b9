package models

import "time"

// OutboxEntry представляет одну локальную мутацию, ожидающую отправки.
// BaseVersion records the server version the client believed was current at
// edit time; it is the basis for server-side conflict detection and is
// preserved across coalescing. IdempotencyKey identifies the pending slot so
// a replayed push after a lost acknowledgment is recognized by the server.
type OutboxEntry struct {
	CreatedAt      time.Time `json:"created_at"`
	RecordID       string    `json:"record_id"`
	Operation      Operation `json:"operation"`
	IdempotencyKey string    `json:"idempotency_key"`
	Payload        []byte    `json:"payload"`
	BaseVersion    int64     `json:"base_version"`
}

// Clone создает глубокую копию записи outbox.
func (e *OutboxEntry) Clone() *OutboxEntry {
	payload := make([]byte, len(e.Payload))
	copy(payload, e.Payload)

	return &OutboxEntry{
		RecordID:       e.RecordID,
		Operation:      e.Operation,
		IdempotencyKey: e.IdempotencyKey,
		Payload:        payload,
		BaseVersion:    e.BaseVersion,
		CreatedAt:      e.CreatedAt,
	}
}

// Coalesce folds a newer local mutation into an existing unsent entry.
// The newer payload and operation replace the old ones; BaseVersion,
// IdempotencyKey and CreatedAt stay with the first unsent entry so conflict
// detection still reflects the true base the client edited against.
// A delete folded on top of an unsent update stays a delete with the original
// base; a later put turns the slot back into an update against that base.
//
// A delete of an unsent create returns nil: the record never reached the
// server, so there is nothing left to transmit and the slot must be dropped.
func (e *OutboxEntry) Coalesce(newer *OutboxEntry) *OutboxEntry {
	if e.Operation == OpCreate && newer.Operation == OpDelete {
		return nil
	}

	merged := e.Clone()

	merged.Payload = make([]byte, len(newer.Payload))
	copy(merged.Payload, newer.Payload)

	switch {
	case e.Operation == OpCreate && newer.Operation != OpDelete:
		// A not-yet-pushed create stays a create no matter how many edits
		// were folded into it.
		merged.Operation = OpCreate
	default:
		merged.Operation = newer.Operation
	}

	return merged
}
