package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/syncbox/internal/models"
	"github.com/iudanet/syncbox/internal/server/storage"
)

// GetOutcome возвращает сохранённый результат обработки по ключу идемпотентности.
func (s *Storage) GetOutcome(ctx context.Context, key string) (*models.PushOutcome, error) {
	query := `SELECT record_id, status, resolution, reason, version
	          FROM idempotency_keys WHERE key = ?`

	var (
		outcome    models.PushOutcome
		status     string
		resolution string
	)
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&outcome.RecordID, &status, &resolution, &outcome.Reason, &outcome.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}

	outcome.Status = models.PushStatus(status)
	outcome.Resolution = models.Resolution(resolution)
	return &outcome, nil
}

// SaveOutcome сохраняет результат обработки под ключом идемпотентности.
// Повторная запись того же ключа ничего не меняет: выигрывает первый результат.
func (s *Storage) SaveOutcome(ctx context.Context, key string, outcome *models.PushOutcome) error {
	query := `INSERT INTO idempotency_keys (key, record_id, status, resolution, reason, version, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT(key) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		key, outcome.RecordID, outcome.Status, outcome.Resolution,
		outcome.Reason, outcome.Version, time.Now().UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}

	return nil
}
