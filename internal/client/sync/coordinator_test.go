package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/iudanet/syncbox/internal/client/api"
	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/models"
	"github.com/iudanet/syncbox/pkg/api"
)

// testEnv собирает координатор поверх in-memory моков хранилищ.
type testEnv struct {
	apiMock    *httpapi.ClientAPIMock
	outbox     *storage.OutboxMock
	revisions  *storage.RevisionStoreMock
	checkpoint *storage.CheckpointStoreMock
	coord      *Coordinator

	pending    map[string]*models.OutboxEntry
	order      []string
	serverVers map[string]int64
	pulled     []*models.Record
	lastPull   time.Time
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	env := &testEnv{
		pending:    make(map[string]*models.OutboxEntry),
		serverVers: make(map[string]int64),
	}

	env.outbox = &storage.OutboxMock{
		AppendFunc: func(ctx context.Context, entry *models.OutboxEntry) error {
			if _, ok := env.pending[entry.RecordID]; !ok {
				env.order = append(env.order, entry.RecordID)
			}
			env.pending[entry.RecordID] = entry
			return nil
		},
		DrainBatchFunc: func(ctx context.Context, maxSize int) ([]*models.OutboxEntry, error) {
			result := []*models.OutboxEntry{}
			for _, id := range env.order {
				if entry, ok := env.pending[id]; ok {
					result = append(result, entry)
				}
				if maxSize > 0 && len(result) == maxSize {
					break
				}
			}
			return result, nil
		},
		AcknowledgeFunc: func(ctx context.Context, recordID string) error {
			delete(env.pending, recordID)
			return nil
		},
		LenFunc: func(ctx context.Context) (int, error) {
			return len(env.pending), nil
		},
	}

	env.revisions = &storage.RevisionStoreMock{
		ApplyServerOutcomeFunc: func(ctx context.Context, id string, version int64) error {
			if stored := env.serverVers[id]; stored > version {
				return &storage.StaleApplyError{RecordID: id, Stored: stored, Applied: version}
			}
			env.serverVers[id] = version
			return nil
		},
		ApplyPulledRecordFunc: func(ctx context.Context, record *models.Record) error {
			env.serverVers[record.ID] = record.Version
			env.pulled = append(env.pulled, record)
			return nil
		},
	}

	env.checkpoint = &storage.CheckpointStoreMock{
		GetCheckpointFunc: func(ctx context.Context) (time.Time, error) {
			return env.lastPull, nil
		},
		SaveCheckpointFunc: func(ctx context.Context, at time.Time) error {
			env.lastPull = at
			return nil
		},
	}

	env.apiMock = &httpapi.ClientAPIMock{
		PullFunc: func(ctx context.Context, accessToken string, since time.Time) (*api.PullResponse, error) {
			return &api.PullResponse{ServerTime: time.Now()}, nil
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.coord = NewCoordinator(env.apiMock, env.revisions, env.outbox, env.checkpoint, logger, cfg)

	return env
}

func (env *testEnv) addPending(id string, op models.Operation, baseVersion int64) {
	_ = env.outbox.AppendFunc(context.Background(), &models.OutboxEntry{
		RecordID:       id,
		Operation:      op,
		IdempotencyKey: "key-" + id,
		Payload:        []byte("payload-" + id),
		BaseVersion:    baseVersion,
		CreatedAt:      time.Now(),
	})
}

func TestCoordinator_Sync_PushAcceptedClearsOutbox(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	env.addPending("x", models.OpUpdate, 1)
	env.addPending("y", models.OpCreate, 0)

	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		require.Len(t, req.Entries, 2)
		return &api.PushResponse{Results: []api.PushResult{
			{RecordID: "x", Status: api.StatusAccepted, Version: 2},
			{RecordID: "y", Status: api.StatusAccepted, Version: 1},
		}}, nil
	}

	result, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Pushed)
	assert.Equal(t, 2, result.Accepted)
	assert.Empty(t, env.pending, "outbox must be empty after acceptance")
	assert.Equal(t, int64(2), env.serverVers["x"])
	assert.Equal(t, int64(1), env.serverVers["y"])
	assert.Equal(t, StateIdle, env.coord.State())
}

func TestCoordinator_Sync_CheckpointUsesServerTime(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.lastPull = t0

	serverTime := t0.Add(10 * time.Minute)
	recordTime := t0.Add(2 * time.Minute) // max(updated_at) < server_time

	env.apiMock.PullFunc = func(ctx context.Context, accessToken string, since time.Time) (*api.PullResponse, error) {
		assert.True(t, t0.Equal(since))
		return &api.PullResponse{
			ServerTime: serverTime,
			Records: []api.PullRecord{
				{RecordID: "a", Payload: []byte("1"), Version: 3, UpdatedAt: t0.Add(time.Minute)},
				{RecordID: "b", Payload: []byte("2"), Version: 1, UpdatedAt: recordTime},
			},
		}, nil
	}

	result, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Pulled)
	assert.True(t, serverTime.Equal(env.lastPull),
		"checkpoint must be the server-reported time, not max(updated_at)")
}

func TestCoordinator_Sync_RejectedAcknowledgedAndSurfaced(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	env.addPending("bad", models.OpUpdate, 1)

	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		return &api.PushResponse{Results: []api.PushResult{
			{RecordID: "bad", Status: api.StatusRejected, Reason: "invalid payload: cannot be empty"},
		}}, nil
	}

	result, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)

	assert.Empty(t, env.pending, "permanently rejected entries are acknowledged")
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "bad", result.Rejected[0].RecordID)
	assert.Contains(t, result.Rejected[0].Reason, "invalid payload")
}

func TestCoordinator_Sync_AutoResolvedConflictAcknowledged(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	env.addPending("x", models.OpUpdate, 3)

	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		return &api.PushResponse{Results: []api.PushResult{
			{RecordID: "x", Status: api.StatusConflicted, Resolution: api.ResolutionClientWins, Version: 5},
		}}, nil
	}

	result, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)

	assert.Empty(t, env.pending)
	assert.Equal(t, int64(5), env.serverVers["x"])
	assert.Equal(t, 1, result.Conflicted)
	assert.Equal(t, 0, result.ManualConflicts)
	assert.Equal(t, 1, env.coord.UnresolvedConflicts())
}

func TestCoordinator_Sync_ManualConflictStaysInOutbox(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	env.addPending("x", models.OpUpdate, 3)

	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		return &api.PushResponse{Results: []api.PushResult{
			{RecordID: "x", Status: api.StatusConflicted, Resolution: api.ResolutionManual, Version: 4},
		}}, nil
	}

	result, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)

	assert.Len(t, env.pending, 1, "manual conflicts persist until resolved")
	assert.Equal(t, 1, result.ManualConflicts)
}

func TestCoordinator_Sync_NetworkFailureLeavesOutboxIntact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackoffBase = time.Millisecond
	cfg.MaxRetries = 2
	env := newTestEnv(t, cfg)
	ctx := context.Background()

	env.addPending("x", models.OpUpdate, 1)

	calls := 0
	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		calls++
		return nil, &httpapi.NetworkError{Op: "POST /api/v1/sync/push", Err: errors.New("connection refused")}
	}

	_, err := env.coord.Sync(ctx, "token")
	require.Error(t, err)

	assert.Equal(t, 3, calls, "initial attempt plus MaxRetries")
	assert.Len(t, env.pending, 1, "outbox untouched so the retry is safe")
	assert.True(t, env.lastPull.IsZero(), "no checkpoint advance on failure")
	assert.Equal(t, StateIdle, env.coord.State())
}

func TestCoordinator_Sync_TransientErrorThenSuccess(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackoffBase = time.Millisecond
	env := newTestEnv(t, cfg)
	ctx := context.Background()

	env.addPending("x", models.OpUpdate, 1)

	calls := 0
	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		calls++
		if calls == 1 {
			return nil, &httpapi.NetworkError{Op: "push", Err: errors.New("i/o timeout")}
		}
		return &api.PushResponse{Results: []api.PushResult{
			{RecordID: "x", Status: api.StatusAccepted, Version: 2},
		}}, nil
	}

	result, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, result.Accepted)
	assert.Empty(t, env.pending)
}

func TestCoordinator_Sync_PermanentErrorNotRetried(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	env.addPending("x", models.OpUpdate, 1)

	calls := 0
	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		calls++
		return nil, fmt.Errorf("server error (403): forbidden")
	}

	_, err := env.coord.Sync(ctx, "token")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-network errors are not retried")
	assert.Len(t, env.pending, 1)
}

func TestCoordinator_Sync_SingleFlightCoalesces(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	env.addPending("x", models.OpUpdate, 1)

	cycles := 0
	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		cycles++
		if cycles == 1 {
			// A sync request lands while this cycle is active.
			_, err := env.coord.Sync(ctx, "token")
			assert.ErrorIs(t, err, ErrSyncInProgress)
		}
		results := make([]api.PushResult, 0, len(req.Entries))
		for _, e := range req.Entries {
			results = append(results, api.PushResult{
				RecordID: e.RecordID, Status: api.StatusAccepted, Version: e.BaseVersion + 1,
			})
		}
		return &api.PushResponse{Results: results}, nil
	}

	pulls := 0
	env.apiMock.PullFunc = func(ctx context.Context, accessToken string, since time.Time) (*api.PullResponse, error) {
		pulls++
		return &api.PullResponse{ServerTime: time.Now()}, nil
	}

	_, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)

	// The coalesced request reruns the cycle once; the second cycle has an
	// empty outbox so only the pull happens.
	assert.Equal(t, 1, cycles)
	assert.Equal(t, 2, pulls)
}

func TestCoordinator_Sync_StaleOutcomeIgnored(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	env.serverVers["x"] = 9
	env.addPending("x", models.OpUpdate, 1)

	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		return &api.PushResponse{Results: []api.PushResult{
			{RecordID: "x", Status: api.StatusAccepted, Version: 2},
		}}, nil
	}

	_, err := env.coord.Sync(ctx, "token")
	require.NoError(t, err)

	assert.Equal(t, int64(9), env.serverVers["x"], "stale outcome must not regress the version")
	assert.Empty(t, env.pending, "entry still acknowledged")
}

func TestCoordinator_Sync_CancellationLeavesStateUntouched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackoffBase = 50 * time.Millisecond
	env := newTestEnv(t, cfg)

	env.addPending("x", models.OpUpdate, 1)

	ctx, cancel := context.WithCancel(context.Background())
	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		cancel()
		return nil, &httpapi.NetworkError{Op: "push", Err: errors.New("interrupted")}
	}

	_, err := env.coord.Sync(ctx, "token")
	require.Error(t, err)

	assert.Len(t, env.pending, 1, "cancellation must leave the outbox intact")
	assert.True(t, env.lastPull.IsZero())
}

func TestCoordinator_Run_TickerDrivesCyclesUntilCancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SyncInterval = 5 * time.Millisecond
	env := newTestEnv(t, cfg)

	pulls := make(chan struct{}, 16)
	env.apiMock.PullFunc = func(ctx context.Context, accessToken string, since time.Time) (*api.PullResponse, error) {
		select {
		case pulls <- struct{}{}:
		default:
		}
		return &api.PullResponse{ServerTime: time.Now()}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.coord.Run(ctx, "token") }()

	for i := 0; i < 2; i++ {
		select {
		case <-pulls:
		case <-time.After(time.Second):
			t.Fatal("no sync cycle within a second")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestCoordinator_Run_TriggerForcesImmediateCycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SyncInterval = time.Hour // only the trigger can start a cycle
	env := newTestEnv(t, cfg)

	pulls := make(chan struct{}, 1)
	env.apiMock.PullFunc = func(ctx context.Context, accessToken string, since time.Time) (*api.PullResponse, error) {
		select {
		case pulls <- struct{}{}:
		default:
		}
		return &api.PullResponse{ServerTime: time.Now()}, nil
	}

	// Queued before Run starts; the buffered trigger channel holds it.
	env.coord.TriggerSync()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.coord.Run(ctx, "token") }()

	select {
	case <-pulls:
	case <-time.After(time.Second):
		t.Fatal("trigger did not start a cycle")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestCoordinator_Run_FailedCycleDoesNotStopTheLoop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SyncInterval = 5 * time.Millisecond
	cfg.BackoffBase = time.Millisecond
	cfg.MaxRetries = 0
	env := newTestEnv(t, cfg)

	env.addPending("x", models.OpUpdate, 1)

	pushes := make(chan struct{}, 16)
	env.apiMock.PushFunc = func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
		select {
		case pushes <- struct{}{}:
		default:
		}
		return nil, &httpapi.NetworkError{Op: "push", Err: errors.New("connection refused")}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.coord.Run(ctx, "token") }()

	// Two failing cycles: the loop absorbs the failure and ticks again.
	for i := 0; i < 2; i++ {
		select {
		case <-pushes:
		case <-time.After(time.Second):
			t.Fatal("cycle did not retry after a failure")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	assert.Len(t, env.pending, 1, "failed cycles leave the outbox intact")
}

func TestCoordinator_TriggerSync_NonBlocking(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())

	// A second trigger while one is queued must not block.
	env.coord.TriggerSync()
	env.coord.TriggerSync()
}

func TestCoordinator_PendingCount(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())

	env.addPending("x", models.OpUpdate, 1)
	env.addPending("y", models.OpCreate, 0)

	count, err := env.coord.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
