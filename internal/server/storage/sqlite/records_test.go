package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/syncbox/internal/server/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestPutRecord_CreateAssignsVersionOne(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	version, err := s.PutRecord(ctx, "rec-1", []byte(`{"v":1}`), false, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	rec, err := s.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)
	assert.Equal(t, []byte(`{"v":1}`), rec.Payload)
	assert.False(t, rec.Deleted)
}

func TestPutRecord_CreateExistingFails(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.PutRecord(ctx, "rec-1", []byte(`{"v":1}`), false, 0)
	require.NoError(t, err)

	_, err = s.PutRecord(ctx, "rec-1", []byte(`{"v":2}`), false, 0)
	assert.ErrorIs(t, err, storage.ErrVersionMismatch)

	rec, err := s.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), rec.Payload, "failed put must not change the record")
}

func TestPutRecord_VersionsAreMonotonic(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	v1, err := s.PutRecord(ctx, "rec-1", []byte("a"), false, 0)
	require.NoError(t, err)
	v2, err := s.PutRecord(ctx, "rec-1", []byte("b"), false, v1)
	require.NoError(t, err)
	v3, err := s.PutRecord(ctx, "rec-1", []byte("c"), false, v2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(2), v2)
	assert.Equal(t, int64(3), v3)
}

func TestPutRecord_StaleVersionFails(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	v1, err := s.PutRecord(ctx, "rec-1", []byte("a"), false, 0)
	require.NoError(t, err)
	_, err = s.PutRecord(ctx, "rec-1", []byte("b"), false, v1)
	require.NoError(t, err)

	// Second writer still holds version 1.
	_, err = s.PutRecord(ctx, "rec-1", []byte("stale"), false, v1)
	assert.ErrorIs(t, err, storage.ErrVersionMismatch)

	rec, err := s.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), rec.Payload)
	assert.Equal(t, int64(2), rec.Version)
}

func TestPutRecord_TombstoneKeepsVersioning(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	v1, err := s.PutRecord(ctx, "rec-1", []byte("a"), false, 0)
	require.NoError(t, err)

	v2, err := s.PutRecord(ctx, "rec-1", nil, true, v1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)

	rec, err := s.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.True(t, rec.Deleted)
	assert.Equal(t, int64(2), rec.Version)
}

func TestGetRecord_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestScanSince_ReturnsOnlyNewerRecords(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.PutRecord(ctx, "old", []byte("old"), false, 0)
	require.NoError(t, err)

	cutoff := time.Now().UTC()
	time.Sleep(5 * time.Millisecond)

	_, err = s.PutRecord(ctx, "new-1", []byte("n1"), false, 0)
	require.NoError(t, err)
	_, err = s.PutRecord(ctx, "new-2", nil, true, 0)
	require.NoError(t, err)

	records, err := s.ScanSince(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new-1", records[0].ID)
	assert.Equal(t, "new-2", records[1].ID)
	assert.True(t, records[1].Deleted, "tombstones must be visible to pull")
}

func TestScanSince_ZeroTimeReturnsEverything(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.PutRecord(ctx, "a", []byte("a"), false, 0)
	require.NoError(t, err)
	_, err = s.PutRecord(ctx, "b", []byte("b"), false, 0)
	require.NoError(t, err)

	records, err := s.ScanSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
