package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/syncbox/internal/models"
	"github.com/iudanet/syncbox/internal/server/storage"
	"github.com/iudanet/syncbox/internal/validation"
)

// casAttempts ограничивает число повторов compare-and-swap, когда между
// чтением и записью успевает другой push.
const casAttempts = 5

var errCASExhausted = errors.New("record version kept moving, giving up")

// Resolver обрабатывает пришедшие от клиентов записи: валидация,
// проверка идемпотентности, обнаружение и разрешение конфликтов.
//
// Every entry produces exactly one PushOutcome and exactly one audit log
// line. Replayed entries (same idempotency key) return the stored outcome
// without touching the record again.
type Resolver struct {
	records storage.RecordStorage
	audit   storage.AuditStorage
	idem    storage.IdempotencyStorage
	policy  Policy
	logger  *slog.Logger
}

// New creates a Resolver. A nil policy defaults to ArrivalOrderLWW.
func New(
	records storage.RecordStorage,
	audit storage.AuditStorage,
	idem storage.IdempotencyStorage,
	policy Policy,
	logger *slog.Logger,
) *Resolver {
	if policy == nil {
		policy = ArrivalOrderLWW{}
	}
	return &Resolver{
		records: records,
		audit:   audit,
		idem:    idem,
		policy:  policy,
		logger:  logger,
	}
}

// ApplyBatch обрабатывает записи в порядке получения и возвращает результат
// для каждой. Порядок результатов совпадает с порядком записей.
// A storage failure aborts the whole batch: better to retry the push than
// to answer for entries whose fate is unknown.
func (r *Resolver) ApplyBatch(
	ctx context.Context, clientID string, entries []*models.OutboxEntry,
) ([]*models.PushOutcome, error) {
	outcomes := make([]*models.PushOutcome, 0, len(entries))
	for _, entry := range entries {
		outcome, err := r.Apply(ctx, clientID, entry)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// Apply обрабатывает одну запись и возвращает её результат.
func (r *Resolver) Apply(
	ctx context.Context, clientID string, entry *models.OutboxEntry,
) (*models.PushOutcome, error) {
	if err := validation.ValidateEntry(entry); err != nil {
		outcome := &models.PushOutcome{
			RecordID: entry.RecordID,
			Status:   models.StatusRejected,
			Reason:   err.Error(),
		}
		// Malformed entries may carry an unusable idempotency key, so the
		// rejection is audited but not remembered.
		if auditErr := r.writeAudit(ctx, clientID, outcome); auditErr != nil {
			return nil, auditErr
		}
		return outcome, nil
	}

	// Replay detection: a crash between server apply and client acknowledge
	// makes the client resend. The stored outcome answers without a second
	// apply, so versions do not advance twice.
	stored, err := r.idem.GetOutcome(ctx, entry.IdempotencyKey)
	if err == nil {
		r.logger.Debug("replayed push entry",
			"record_id", entry.RecordID,
			"idempotency_key", entry.IdempotencyKey,
		)
		return stored, nil
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	outcome, err := r.resolve(ctx, clientID, entry)
	if err != nil {
		return nil, err
	}

	if err := r.writeAudit(ctx, clientID, outcome); err != nil {
		return nil, err
	}
	if err := r.idem.SaveOutcome(ctx, entry.IdempotencyKey, outcome); err != nil {
		return nil, fmt.Errorf("failed to save idempotency outcome: %w", err)
	}

	return outcome, nil
}

// resolve применяет запись к хранилищу. CAS повторяется, если версия
// успела сдвинуться между чтением и записью.
func (r *Resolver) resolve(
	ctx context.Context, clientID string, entry *models.OutboxEntry,
) (*models.PushOutcome, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		currentVersion := int64(0)
		current, err := r.records.GetRecord(ctx, entry.RecordID)
		switch {
		case err == nil:
			currentVersion = current.Version
		case errors.Is(err, storage.ErrRecordNotFound):
			current = nil
		default:
			return nil, fmt.Errorf("failed to read current record: %w", err)
		}

		switch {
		case entry.BaseVersion == currentVersion:
			outcome, err := r.applyClean(ctx, entry, currentVersion)
			if errors.Is(err, storage.ErrVersionMismatch) {
				continue // lost the race, re-read
			}
			return outcome, err

		case entry.BaseVersion < currentVersion:
			outcome, err := r.applyConflict(ctx, clientID, entry, current)
			if errors.Is(err, storage.ErrVersionMismatch) {
				continue
			}
			return outcome, err

		default:
			// The client claims a base the server never assigned. Nothing
			// sane can be applied on top of that.
			return &models.PushOutcome{
				RecordID: entry.RecordID,
				Status:   models.StatusRejected,
				Reason:   fmt.Sprintf("base version %d ahead of server version %d", entry.BaseVersion, currentVersion),
				Version:  currentVersion,
			}, nil
		}
	}
	return nil, errCASExhausted
}

// applyClean обрабатывает запись без конфликта: base_version совпадает с
// текущей серверной версией (или запись новая).
func (r *Resolver) applyClean(
	ctx context.Context, entry *models.OutboxEntry, currentVersion int64,
) (*models.PushOutcome, error) {
	if currentVersion == 0 && entry.Operation == models.OpDelete {
		// Deleting something the server never saw. Harmless, but there is
		// no state to version, so the entry is rejected rather than applied.
		return &models.PushOutcome{
			RecordID: entry.RecordID,
			Status:   models.StatusRejected,
			Reason:   "delete of unknown record",
		}, nil
	}

	newVersion, err := r.records.PutRecord(
		ctx, entry.RecordID, entry.Payload, entry.Operation == models.OpDelete, currentVersion)
	if err != nil {
		if errors.Is(err, storage.ErrVersionMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to apply record: %w", err)
	}

	return &models.PushOutcome{
		RecordID: entry.RecordID,
		Status:   models.StatusAccepted,
		Version:  newVersion,
	}, nil
}

// applyConflict обрабатывает запись с устаревшим base_version.
// Политика выбирает исход; запись о конфликте пишется всегда.
func (r *Resolver) applyConflict(
	ctx context.Context, clientID string, entry *models.OutboxEntry, current *models.Record,
) (*models.PushOutcome, error) {
	resolution := r.policy.Resolve(entry, current)

	resultVersion := current.Version
	switch resolution {
	case models.ResolutionClientWins, models.ResolutionMerged:
		newVersion, err := r.records.PutRecord(
			ctx, entry.RecordID, entry.Payload, entry.Operation == models.OpDelete, current.Version)
		if err != nil {
			if errors.Is(err, storage.ErrVersionMismatch) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to apply conflicting record: %w", err)
		}
		resultVersion = newVersion

	case models.ResolutionServerWins:
		// Re-put the stored state unchanged. The losing client has already
		// applied its edit locally; bumping version and updated_at makes the
		// next pull deliver the authoritative record so both stores converge.
		newVersion, err := r.records.PutRecord(
			ctx, entry.RecordID, current.Payload, current.Deleted, current.Version)
		if err != nil {
			if errors.Is(err, storage.ErrVersionMismatch) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to restate record: %w", err)
		}
		resultVersion = newVersion
	}

	conflict := &models.ConflictRecord{
		OccurredAt:    time.Now().UTC(),
		RecordID:      entry.RecordID,
		ClientID:      clientID,
		Resolution:    resolution,
		ClientVersion: entry.BaseVersion,
		ServerVersion: current.Version,
	}
	if err := r.audit.AppendConflict(ctx, conflict); err != nil {
		return nil, fmt.Errorf("failed to append conflict record: %w", err)
	}

	r.logger.Info("conflict resolved",
		"record_id", entry.RecordID,
		"client_id", clientID,
		"client_base", entry.BaseVersion,
		"server_version", current.Version,
		"resolution", resolution,
	)

	return &models.PushOutcome{
		RecordID:   entry.RecordID,
		Status:     models.StatusConflicted,
		Resolution: resolution,
		Version:    resultVersion,
	}, nil
}

func (r *Resolver) writeAudit(ctx context.Context, clientID string, outcome *models.PushOutcome) error {
	entry := &models.AuditLogEntry{
		Timestamp:        time.Now().UTC(),
		Action:           string(outcome.Status),
		RecordID:         outcome.RecordID,
		Actor:            clientID,
		ResultingVersion: outcome.Version,
	}
	if err := r.audit.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}
