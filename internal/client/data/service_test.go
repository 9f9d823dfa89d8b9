package data

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/client/storage/boltdb"
	"github.com/iudanet/syncbox/internal/models"
)

func newTestService(t *testing.T) (*Service, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, store, logger), store
}

func TestService_Put_NewRecordIsCreate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	rev, err := svc.Put(ctx, "note-1", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev.LocalVersion)

	entries, err := store.DrainBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OpCreate, entries[0].Operation)
	assert.Equal(t, int64(0), entries[0].BaseVersion)
	assert.NotEmpty(t, entries[0].IdempotencyKey)
}

func TestService_Put_GeneratesID(t *testing.T) {
	svc, _ := newTestService(t)

	rev, err := svc.Put(context.Background(), "", []byte("hello"))
	require.NoError(t, err)
	assert.NotEmpty(t, rev.RecordID)
}

func TestService_Put_KnownRecordIsUpdateWithServerBase(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Put(ctx, "note-1", []byte("v1"))
	require.NoError(t, err)

	// Server accepted the create at version 3 (simulated sync).
	_, err = store.DrainBatch(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, store.ApplyServerOutcome(ctx, "note-1", 3))
	require.NoError(t, store.Acknowledge(ctx, "note-1"))

	_, err = svc.Put(ctx, "note-1", []byte("v2"))
	require.NoError(t, err)

	entries, err := store.DrainBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OpUpdate, entries[0].Operation)
	assert.Equal(t, int64(3), entries[0].BaseVersion, "base is the last observed server version")
}

func TestService_Put_EditsBeforeSyncCoalesce(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Put(ctx, "note-1", []byte("v1"))
	require.NoError(t, err)
	_, err = svc.Put(ctx, "note-1", []byte("v2"))
	require.NoError(t, err)

	entries, err := store.DrainBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one pending entry per record")
	assert.Equal(t, models.OpCreate, entries[0].Operation)
	assert.Equal(t, []byte("v2"), entries[0].Payload)
}

func TestService_Delete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Put(ctx, "note-1", []byte("v1"))
	require.NoError(t, err)
	_, err = store.DrainBatch(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, store.ApplyServerOutcome(ctx, "note-1", 2))
	require.NoError(t, store.Acknowledge(ctx, "note-1"))

	require.NoError(t, svc.Delete(ctx, "note-1"))

	_, err = svc.Get(ctx, "note-1")
	assert.ErrorIs(t, err, storage.ErrEntryNotFound, "tombstones are hidden")

	entries, err := store.DrainBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OpDelete, entries[0].Operation)
	assert.Equal(t, int64(2), entries[0].BaseVersion)
}

func TestService_Delete_UnknownRecord(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Put(ctx, "a", []byte("1"))
	require.NoError(t, err)
	_, err = svc.Put(ctx, "b", []byte("2"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "b"))

	active, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].RecordID)
}
