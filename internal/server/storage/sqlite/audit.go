package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/syncbox/internal/models"
)

// AppendAudit добавляет запись в журнал аудита. Журнал append-only,
// записи никогда не изменяются и не удаляются.
func (s *Storage) AppendAudit(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `INSERT INTO audit_log (action, record_id, actor, resulting_version, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		entry.Action, entry.RecordID, entry.Actor,
		entry.ResultingVersion, entry.Timestamp.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// AppendConflict добавляет запись о конфликте.
func (s *Storage) AppendConflict(ctx context.Context, rec *models.ConflictRecord) error {
	query := `INSERT INTO conflicts (record_id, client_id, client_version, server_version, resolution, occurred_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.RecordID, rec.ClientID, rec.ClientVersion, rec.ServerVersion,
		rec.Resolution, rec.OccurredAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to append conflict record: %w", err)
	}

	return nil
}

// ListConflicts возвращает последние конфликты, новые первыми.
// limit <= 0 means no limit.
func (s *Storage) ListConflicts(ctx context.Context, limit int) ([]*models.ConflictRecord, error) {
	query := `SELECT record_id, client_id, client_version, server_version, resolution, occurred_at
	          FROM conflicts ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []*models.ConflictRecord
	for rows.Next() {
		var (
			rec        models.ConflictRecord
			resolution string
			occurredAt int64
		)
		if err := rows.Scan(&rec.RecordID, &rec.ClientID, &rec.ClientVersion,
			&rec.ServerVersion, &resolution, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan conflict row: %w", err)
		}
		rec.Resolution = models.Resolution(resolution)
		rec.OccurredAt = time.Unix(0, occurredAt).UTC()
		conflicts = append(conflicts, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conflicts: %w", err)
	}

	return conflicts, nil
}
