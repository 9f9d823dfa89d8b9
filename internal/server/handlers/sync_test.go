package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/syncbox/internal/server/resolver"
	"github.com/iudanet/syncbox/internal/server/storage/sqlite"
	"github.com/iudanet/syncbox/pkg/api"
)

func newSyncHandler(t *testing.T) (*SyncHandler, *sqlite.Storage) {
	t.Helper()

	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := resolver.New(s, s, s, nil, logger)
	return NewSyncHandler(logger, res, s, s), s
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), ClientIDKey, "client-1")
	ctx = context.WithValue(ctx, ClientNameKey, "laptop")
	return req.WithContext(ctx)
}

func TestPush_AcceptsBatch(t *testing.T) {
	h, _ := newSyncHandler(t)

	reqBody, err := json.Marshal(api.PushRequest{Entries: []api.PushEntry{
		{
			CreatedAt:      time.Now().UTC(),
			RecordID:       "x",
			Operation:      api.OperationCreate,
			IdempotencyKey: "key-x",
			Payload:        []byte(`{"n":1}`),
			BaseVersion:    0,
		},
		{
			CreatedAt:      time.Now().UTC(),
			RecordID:       "y",
			Operation:      api.OperationCreate,
			IdempotencyKey: "key-y",
			Payload:        []byte(`{"n":2}`),
			BaseVersion:    0,
		},
	}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Push(w, authedRequest(http.MethodPost, "/api/v1/sync/push", reqBody))

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PushResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, api.StatusAccepted, resp.Results[0].Status)
	assert.Equal(t, int64(1), resp.Results[0].Version)
	assert.Equal(t, api.StatusAccepted, resp.Results[1].Status)
}

func TestPush_ReportsConflict(t *testing.T) {
	h, _ := newSyncHandler(t)

	push := func(entry api.PushEntry) api.PushResponse {
		body, err := json.Marshal(api.PushRequest{Entries: []api.PushEntry{entry}})
		require.NoError(t, err)
		w := httptest.NewRecorder()
		h.Push(w, authedRequest(http.MethodPost, "/api/v1/sync/push", body))
		require.Equal(t, http.StatusOK, w.Code)
		var resp api.PushResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		return resp
	}

	push(api.PushEntry{RecordID: "rec", Operation: api.OperationCreate,
		IdempotencyKey: "k1", Payload: []byte("a"), BaseVersion: 0})
	push(api.PushEntry{RecordID: "rec", Operation: api.OperationUpdate,
		IdempotencyKey: "k2", Payload: []byte("b"), BaseVersion: 1})

	// Stale client still at base 1.
	resp := push(api.PushEntry{RecordID: "rec", Operation: api.OperationUpdate,
		IdempotencyKey: "k3", Payload: []byte("c"), BaseVersion: 1})

	require.Len(t, resp.Results, 1)
	assert.Equal(t, api.StatusConflicted, resp.Results[0].Status)
	assert.Equal(t, api.ResolutionClientWins, resp.Results[0].Resolution)
	assert.Equal(t, int64(3), resp.Results[0].Version)
}

func TestPush_Unauthorized(t *testing.T) {
	h, _ := newSyncHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/push", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	h.Push(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPush_InvalidBody(t *testing.T) {
	h, _ := newSyncHandler(t)

	w := httptest.NewRecorder()
	h.Push(w, authedRequest(http.MethodPost, "/api/v1/sync/push", []byte(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPull_ReturnsRecordsAndServerTime(t *testing.T) {
	h, s := newSyncHandler(t)
	ctx := context.Background()

	_, err := s.PutRecord(ctx, "a", []byte("a"), false, 0)
	require.NoError(t, err)
	_, err = s.PutRecord(ctx, "b", nil, true, 0)
	require.NoError(t, err)

	before := time.Now().UTC()
	w := httptest.NewRecorder()
	h.Pull(w, authedRequest(http.MethodGet, "/api/v1/sync/pull", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PullResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "a", resp.Records[0].RecordID)
	assert.True(t, resp.Records[1].Deleted)

	assert.False(t, resp.ServerTime.Before(before), "server time comes from the server clock")
	assert.False(t, resp.ServerTime.After(time.Now().UTC().Add(time.Second)))
}

func TestPull_SinceFiltersOlderRecords(t *testing.T) {
	h, s := newSyncHandler(t)
	ctx := context.Background()

	_, err := s.PutRecord(ctx, "old", []byte("old"), false, 0)
	require.NoError(t, err)

	cutoff := time.Now().UTC().Format(time.RFC3339Nano)
	time.Sleep(5 * time.Millisecond)

	_, err = s.PutRecord(ctx, "new", []byte("new"), false, 0)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Pull(w, authedRequest(http.MethodGet, "/api/v1/sync/pull?since="+cutoff, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PullResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "new", resp.Records[0].RecordID)
}

func TestPull_InvalidSince(t *testing.T) {
	h, _ := newSyncHandler(t)

	w := httptest.NewRecorder()
	h.Pull(w, authedRequest(http.MethodGet, "/api/v1/sync/pull?since=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflicts_ReturnsAuditedConflicts(t *testing.T) {
	h, _ := newSyncHandler(t)

	// Produce one conflict through the push path.
	push := func(entry api.PushEntry) {
		body, err := json.Marshal(api.PushRequest{Entries: []api.PushEntry{entry}})
		require.NoError(t, err)
		w := httptest.NewRecorder()
		h.Push(w, authedRequest(http.MethodPost, "/api/v1/sync/push", body))
		require.Equal(t, http.StatusOK, w.Code)
	}
	push(api.PushEntry{RecordID: "rec", Operation: api.OperationCreate,
		IdempotencyKey: "k1", Payload: []byte("a"), BaseVersion: 0})
	push(api.PushEntry{RecordID: "rec", Operation: api.OperationUpdate,
		IdempotencyKey: "k2", Payload: []byte("b"), BaseVersion: 0})

	w := httptest.NewRecorder()
	h.Conflicts(w, authedRequest(http.MethodGet, "/api/v1/sync/conflicts", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ConflictsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, "rec", resp.Conflicts[0].RecordID)
	assert.Equal(t, api.ResolutionClientWins, resp.Conflicts[0].Resolution)
	assert.Equal(t, int64(0), resp.Conflicts[0].ClientVersion)
	assert.Equal(t, int64(1), resp.Conflicts[0].ServerVersion)

	// limit is validated
	w = httptest.NewRecorder()
	h.Conflicts(w, authedRequest(http.MethodGet, "/api/v1/sync/conflicts?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
