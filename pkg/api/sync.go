package api

import "time"

// Operation describes the kind of mutation carried by a push entry.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Push outcome statuses returned by the server per record.
const (
	StatusAccepted   = "accepted"
	StatusRejected   = "rejected"
	StatusConflicted = "conflicted"
)

// Conflict resolutions reported alongside a conflicted status.
const (
	ResolutionClientWins = "client_wins"
	ResolutionServerWins = "server_wins"
	ResolutionMerged     = "merged"
	ResolutionManual     = "manual"
)

// PushEntry представляет одну отложенную мутацию клиента.
// BaseVersion is the server version the client last observed for the record;
// the server uses it for conflict detection. IdempotencyKey lets the server
// recognize a replayed entry after a lost response.
type PushEntry struct {
	CreatedAt      time.Time `json:"created_at"`
	RecordID       string    `json:"record_id"`
	Operation      string    `json:"operation"`
	IdempotencyKey string    `json:"idempotency_key"`
	Payload        []byte    `json:"payload"`
	BaseVersion    int64     `json:"base_version"`
}

// PushRequest представляет batch запрос на отправку локальных изменений.
type PushRequest struct {
	Entries []PushEntry `json:"entries"`
}

// PushResult is the per-record outcome of a push. The batch is not atomic:
// a mix of accepted and conflicted results is the common case.
type PushResult struct {
	RecordID   string `json:"record_id"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"` // set when Status is conflicted
	Reason     string `json:"reason,omitempty"`     // set when Status is rejected
	Version    int64  `json:"version"`
}

// PushResponse представляет ответ сервера на push.
type PushResponse struct {
	Results []PushResult `json:"results"`
}

// PullRecord is a server-authoritative record returned by a pull.
type PullRecord struct {
	UpdatedAt time.Time `json:"updated_at"`
	RecordID  string    `json:"record_id"`
	Payload   []byte    `json:"payload"`
	Version   int64     `json:"version"`
	Deleted   bool      `json:"deleted"`
}

// PullResponse представляет ответ сервера на pull.
// ServerTime is the server clock at response time and must be used as the
// next checkpoint; clients never checkpoint their own clock.
type PullResponse struct {
	ServerTime time.Time    `json:"server_time"`
	Records    []PullRecord `json:"records"`
}

// ConflictView is one audited conflict, queryable for later inspection.
type ConflictView struct {
	OccurredAt    time.Time `json:"occurred_at"`
	RecordID      string    `json:"record_id"`
	Resolution    string    `json:"resolution"`
	ClientVersion int64     `json:"client_version"`
	ServerVersion int64     `json:"server_version"`
}

// ConflictsResponse представляет ответ на запрос списка конфликтов.
type ConflictsResponse struct {
	Conflicts []ConflictView `json:"conflicts"`
}

// ErrorResponse представляет ошибку API.
type ErrorResponse struct {
	Message string `json:"message"`
}
