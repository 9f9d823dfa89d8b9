package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/syncbox/internal/models"
	"github.com/iudanet/syncbox/internal/server/storage"
	"github.com/iudanet/syncbox/pkg/api"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// ClientIDKey ключ для хранения client_id в контексте
	ClientIDKey contextKey = "client_id"
	// ClientNameKey ключ для хранения client_name в контексте
	ClientNameKey contextKey = "client_name"
)

// GetClientID извлекает client_id из контекста запроса
func GetClientID(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok
}

// GetClientName извлекает client_name из контекста запроса
func GetClientName(ctx context.Context) (string, bool) {
	clientName, ok := ctx.Value(ClientNameKey).(string)
	return clientName, ok
}

// EntryResolver обрабатывает пришедшие записи push.
type EntryResolver interface {
	ApplyBatch(ctx context.Context, clientID string, entries []*models.OutboxEntry) ([]*models.PushOutcome, error)
}

// maxPushBatch ограничивает размер одного push запроса.
const maxPushBatch = 500

// SyncHandler handles push, pull and conflict queries.
type SyncHandler struct {
	logger   *slog.Logger
	resolver EntryResolver
	records  storage.RecordStorage
	audit    storage.AuditStorage
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(
	logger *slog.Logger,
	resolver EntryResolver,
	records storage.RecordStorage,
	audit storage.AuditStorage,
) *SyncHandler {
	return &SyncHandler{
		logger:   logger,
		resolver: resolver,
		records:  records,
		audit:    audit,
	}
}

// Push обрабатывает POST /api/v1/sync/push
// Принимает batch отложенных мутаций и возвращает результат по каждой.
// Batch не атомарен: часть записей может быть принята, часть отклонена.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := GetClientID(ctx)
	if !ok {
		h.logger.Error("client ID not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode push request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Entries) == 0 {
		h.sendJSON(w, api.PushResponse{Results: []api.PushResult{}}, http.StatusOK)
		return
	}
	if len(req.Entries) > maxPushBatch {
		h.sendError(w, "batch too large", http.StatusBadRequest)
		return
	}

	entries := make([]*models.OutboxEntry, 0, len(req.Entries))
	for i := range req.Entries {
		entries = append(entries, pushEntryToModel(&req.Entries[i]))
	}

	outcomes, err := h.resolver.ApplyBatch(ctx, clientID, entries)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to apply push batch",
			slog.String("client_id", clientID),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	results := make([]api.PushResult, 0, len(outcomes))
	for _, outcome := range outcomes {
		results = append(results, api.PushResult{
			RecordID:   outcome.RecordID,
			Status:     string(outcome.Status),
			Resolution: string(outcome.Resolution),
			Reason:     outcome.Reason,
			Version:    outcome.Version,
		})
	}

	h.logger.InfoContext(ctx, "push processed",
		slog.String("client_id", clientID),
		slog.Int("entries", len(entries)))

	h.sendJSON(w, api.PushResponse{Results: results}, http.StatusOK)
}

// Pull обрабатывает GET /api/v1/sync/pull?since=<RFC3339Nano>
// Возвращает записи, изменённые после since, вместе с серверным временем.
// Клиент сохраняет server_time как новый checkpoint; пустой since означает
// полную выгрузку.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := GetClientID(ctx)
	if !ok {
		h.logger.Error("client ID not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var since time.Time
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339Nano, sinceStr)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid since parameter", slog.String("since", sinceStr), slog.Any("error", err))
			h.sendError(w, "invalid since parameter", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	// The checkpoint the client stores next is taken before the scan, so a
	// record updated mid-scan is delivered again on the following pull
	// rather than lost.
	serverTime := time.Now().UTC()

	records, err := h.records.ScanSince(ctx, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to scan records",
			slog.String("client_id", clientID),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pullRecords := make([]api.PullRecord, 0, len(records))
	for _, rec := range records {
		pullRecords = append(pullRecords, api.PullRecord{
			UpdatedAt: rec.UpdatedAt,
			RecordID:  rec.ID,
			Payload:   rec.Payload,
			Version:   rec.Version,
			Deleted:   rec.Deleted,
		})
	}

	h.logger.InfoContext(ctx, "pull processed",
		slog.String("client_id", clientID),
		slog.Time("since", since),
		slog.Int("records", len(pullRecords)))

	h.sendJSON(w, api.PullResponse{
		ServerTime: serverTime,
		Records:    pullRecords,
	}, http.StatusOK)
}

// Conflicts обрабатывает GET /api/v1/sync/conflicts?limit=N
// Возвращает последние зафиксированные конфликты, новые первыми.
func (h *SyncHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := GetClientID(ctx); !ok {
		h.logger.Error("client ID not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			h.sendError(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	conflicts, err := h.audit.ListConflicts(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list conflicts", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	views := make([]api.ConflictView, 0, len(conflicts))
	for _, c := range conflicts {
		views = append(views, api.ConflictView{
			OccurredAt:    c.OccurredAt,
			RecordID:      c.RecordID,
			Resolution:    string(c.Resolution),
			ClientVersion: c.ClientVersion,
			ServerVersion: c.ServerVersion,
		})
	}

	h.sendJSON(w, api.ConflictsResponse{Conflicts: views}, http.StatusOK)
}

func pushEntryToModel(entry *api.PushEntry) *models.OutboxEntry {
	return &models.OutboxEntry{
		CreatedAt:      entry.CreatedAt,
		RecordID:       entry.RecordID,
		Operation:      models.Operation(entry.Operation),
		IdempotencyKey: entry.IdempotencyKey,
		Payload:        entry.Payload,
		BaseVersion:    entry.BaseVersion,
	}
}

// sendJSON отправляет JSON ответ
func (h *SyncHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *SyncHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{Message: message}, statusCode)
}
