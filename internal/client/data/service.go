package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/models"
)

// Service обрабатывает локальные мутации записей.
//
// Every write lands in two places atomically enough for sync correctness:
// the revision store (optimistic local state) and the outbox (durable queue
// towards the server). The outbox entry's base version is the server version
// known at edit time, which is what makes server-side conflict detection
// work.
type Service struct {
	revisions storage.RevisionStore
	outbox    storage.Outbox
	logger    *slog.Logger
}

// NewService создает сервис локальных данных.
func NewService(revisions storage.RevisionStore, outbox storage.Outbox, logger *slog.Logger) *Service {
	return &Service{
		revisions: revisions,
		outbox:    outbox,
		logger:    logger,
	}
}

// Put сохраняет payload локально и ставит мутацию в очередь на отправку.
// A record unknown to the server becomes a create; anything else an update.
func (s *Service) Put(ctx context.Context, id string, payload []byte) (*models.Revision, error) {
	if id == "" {
		id = uuid.New().String()
	}

	op := models.OpCreate
	baseVersion := int64(0)

	existing, err := s.revisions.GetRevision(ctx, id)
	switch {
	case err == nil:
		baseVersion = existing.ServerVersion
		if existing.ServerVersion > 0 {
			op = models.OpUpdate
		}
	case errors.Is(err, storage.ErrEntryNotFound):
		// First write for this id.
	default:
		return nil, fmt.Errorf("failed to read revision: %w", err)
	}

	rev, err := s.revisions.RecordLocalWrite(ctx, id, payload, false)
	if err != nil {
		return nil, fmt.Errorf("failed to record local write: %w", err)
	}

	entry := &models.OutboxEntry{
		RecordID:       id,
		Operation:      op,
		IdempotencyKey: uuid.New().String(),
		Payload:        payload,
		BaseVersion:    baseVersion,
		CreatedAt:      time.Now(),
	}

	if err := s.outbox.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append to outbox: %w", err)
	}

	s.logger.Debug("local write queued",
		"record_id", id,
		"operation", op,
		"base_version", baseVersion)

	return rev, nil
}

// Delete помечает запись удаленной и ставит tombstone в очередь.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.revisions.GetRevision(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read revision: %w", err)
	}

	if _, err := s.revisions.RecordLocalWrite(ctx, id, nil, true); err != nil {
		return fmt.Errorf("failed to record local delete: %w", err)
	}

	entry := &models.OutboxEntry{
		RecordID:       id,
		Operation:      models.OpDelete,
		IdempotencyKey: uuid.New().String(),
		BaseVersion:    existing.ServerVersion,
		CreatedAt:      time.Now(),
	}

	if err := s.outbox.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append to outbox: %w", err)
	}

	s.logger.Debug("local delete queued", "record_id", id)

	return nil
}

// Get возвращает локальную версию записи.
// Tombstones are reported as not found.
func (s *Service) Get(ctx context.Context, id string) (*models.Revision, error) {
	rev, err := s.revisions.GetRevision(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev.Deleted {
		return nil, storage.ErrEntryNotFound
	}
	return rev, nil
}

// List возвращает все не удаленные локальные записи.
func (s *Service) List(ctx context.Context) ([]*models.Revision, error) {
	revisions, err := s.revisions.ListRevisions(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*models.Revision, 0, len(revisions))
	for _, rev := range revisions {
		if !rev.Deleted {
			active = append(active, rev)
		}
	}

	return active, nil
}
