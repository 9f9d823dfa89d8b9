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

// GetRecord возвращает текущее состояние записи, включая tombstone.
func (s *Storage) GetRecord(ctx context.Context, recordID string) (*models.Record, error) {
	query := `SELECT id, payload, version, deleted, updated_at FROM records WHERE id = ?`

	var (
		rec       models.Record
		deleted   int
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, recordID).Scan(
		&rec.ID, &rec.Payload, &rec.Version, &deleted, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	rec.Deleted = deleted != 0
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &rec, nil
}

// PutRecord applies a versioned write. expectedVersion = 0 means the record
// must not exist yet; otherwise the stored version must match exactly.
// On success the new server-assigned version (expectedVersion+1) is returned.
// A failed check returns storage.ErrVersionMismatch and changes nothing.
func (s *Storage) PutRecord(
	ctx context.Context, recordID string, payload []byte, deleted bool, expectedVersion int64,
) (int64, error) {
	now := time.Now().UTC().UnixNano()
	newVersion := expectedVersion + 1

	var (
		res sql.Result
		err error
	)
	if expectedVersion == 0 {
		// Single-statement conditional insert: affects zero rows when the
		// record already exists, so the version check stays atomic.
		query := `INSERT INTO records (id, payload, version, deleted, updated_at)
		          SELECT ?, ?, ?, ?, ?
		          WHERE NOT EXISTS (SELECT 1 FROM records WHERE id = ?)`
		res, err = s.db.ExecContext(ctx, query,
			recordID, payload, newVersion, boolToInt(deleted), now, recordID)
	} else {
		query := `UPDATE records SET payload = ?, version = ?, deleted = ?, updated_at = ?
		          WHERE id = ? AND version = ?`
		res, err = s.db.ExecContext(ctx, query,
			payload, newVersion, boolToInt(deleted), now, recordID, expectedVersion)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to put record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, storage.ErrVersionMismatch
	}

	return newVersion, nil
}

// ScanSince возвращает все записи, изменённые строго после указанного момента.
// Tombstones включаются, чтобы клиенты узнавали об удалениях.
func (s *Storage) ScanSince(ctx context.Context, since time.Time) ([]*models.Record, error) {
	query := `SELECT id, payload, version, deleted, updated_at FROM records
	          WHERE updated_at > ? ORDER BY updated_at ASC`

	rows, err := s.db.QueryContext(ctx, query, since.UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		var (
			rec       models.Record
			deleted   int
			updatedAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Payload, &rec.Version, &deleted, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		rec.Deleted = deleted != 0
		rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}
