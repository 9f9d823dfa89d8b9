package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	httpapi "github.com/iudanet/syncbox/internal/client/api"
	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/models"
	"github.com/iudanet/syncbox/pkg/api"
)

// ErrSyncInProgress возвращается когда цикл синхронизации уже выполняется.
// The request is not lost: it is coalesced into a run-again flag and the
// active cycle reruns once it finishes.
var ErrSyncInProgress = errors.New("sync cycle already in progress")

// Config задает параметры координатора синхронизации.
type Config struct {
	// BatchSize ограничивает размер одного push batch
	BatchSize int
	// SyncInterval период фонового запуска полного цикла
	SyncInterval time.Duration
	// BackoffBase начальная задержка retry при сетевых ошибках
	BackoffBase time.Duration
	// BackoffCap верхняя граница экспоненциальной задержки
	BackoffCap time.Duration
	// MaxRetries число повторов одного сетевого вызова до провала цикла
	MaxRetries uint64
}

// DefaultConfig возвращает разумные значения по умолчанию.
func DefaultConfig() Config {
	return Config{
		BatchSize:    50,
		SyncInterval: 30 * time.Second,
		BackoffBase:  500 * time.Millisecond,
		BackoffCap:   30 * time.Second,
		MaxRetries:   5,
	}
}

// RejectedRecord is a permanently rejected mutation surfaced to the caller.
type RejectedRecord struct {
	RecordID string
	Reason   string
}

// SessionResult contains the terminal outcome of one push/pull cycle.
// Transient retries are invisible here; only what the calling application
// needs to know survives.
type SessionResult struct {
	Checkpoint      time.Time
	Rejected        []RejectedRecord
	Pushed          int
	Accepted        int
	Conflicted      int
	ManualConflicts int
	Pulled          int
}

// Coordinator drives push/pull cycles against the server.
//
// Exactly one cycle is in flight per coordinator: the outbox and revision
// store are only ever mutated from the running cycle, and local writes that
// land during a cycle are picked up by the next one. A sync request arriving
// while a cycle is active sets a run-again flag instead of starting a second
// cycle.
type Coordinator struct {
	apiClient  httpapi.ClientAPI
	revisions  storage.RevisionStore
	outbox     storage.Outbox
	checkpoint storage.CheckpointStore
	logger     *slog.Logger
	trigger    chan struct{}
	cfg        Config

	mu       sync.Mutex
	state    State
	runAgain bool

	conflictsSeen int
}

// NewCoordinator создает координатор синхронизации.
func NewCoordinator(
	apiClient httpapi.ClientAPI,
	revisions storage.RevisionStore,
	outbox storage.Outbox,
	checkpoint storage.CheckpointStore,
	logger *slog.Logger,
	cfg Config,
) *Coordinator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Coordinator{
		apiClient:  apiClient,
		revisions:  revisions,
		outbox:     outbox,
		checkpoint: checkpoint,
		logger:     logger,
		trigger:    make(chan struct{}, 1),
		cfg:        cfg,
		state:      StateIdle,
	}
}

// State возвращает текущее состояние машины синхронизации.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UnresolvedConflicts returns the number of conflicts observed since start.
func (c *Coordinator) UnresolvedConflicts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conflictsSeen
}

// PendingCount возвращает число записей, ожидающих отправки.
func (c *Coordinator) PendingCount(ctx context.Context) (int, error) {
	return c.outbox.Len(ctx)
}

// TriggerSync requests a sync cycle without blocking. Ticks and triggers
// arriving while a cycle runs are dropped; the run-again flag set by Sync
// keeps the coalescing correct.
func (c *Coordinator) TriggerSync() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// Run запускает фоновый цикл синхронизации до отмены контекста.
// Failures of individual cycles are logged and absorbed; the next tick
// retries. Cancellation stops between cycles or inside a network call,
// leaving the outbox and checkpoint untouched.
func (c *Coordinator) Run(ctx context.Context, accessToken string) error {
	ticker := time.NewTicker(c.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-c.trigger:
		}

		if _, err := c.Sync(ctx, accessToken); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.logger.Error("sync cycle failed", "error", err)
		}
	}
}

// Sync выполняет один полный цикл push/pull.
// Returns ErrSyncInProgress when a cycle is already active; the request is
// coalesced and the active cycle reruns after it finishes.
func (c *Coordinator) Sync(ctx context.Context, accessToken string) (*SessionResult, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.runAgain = true
		c.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	c.state = StatePushing
	c.mu.Unlock()

	defer c.setState(StateIdle)

	result, err := c.runCycle(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	// Coalesced requests from during the cycle: run once more.
	for c.consumeRunAgain() {
		next, err := c.runCycle(ctx, accessToken)
		if err != nil {
			return result, err
		}
		result = next
	}

	return result, nil
}

func (c *Coordinator) consumeRunAgain() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	again := c.runAgain
	c.runAgain = false
	return again
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Coordinator) addConflicts(n int) {
	c.mu.Lock()
	c.conflictsSeen += n
	c.mu.Unlock()
}

// runCycle выполняет push затем pull.
func (c *Coordinator) runCycle(ctx context.Context, accessToken string) (*SessionResult, error) {
	result := &SessionResult{}

	if err := c.push(ctx, accessToken, result); err != nil {
		return nil, err
	}

	if err := c.pull(ctx, accessToken, result); err != nil {
		return nil, err
	}

	c.logger.Info("sync cycle completed",
		"pushed", result.Pushed,
		"accepted", result.Accepted,
		"rejected", len(result.Rejected),
		"conflicted", result.Conflicted,
		"pulled", result.Pulled)

	return result, nil
}

// push отправляет batch из outbox и применяет per-record outcomes.
func (c *Coordinator) push(ctx context.Context, accessToken string, result *SessionResult) error {
	c.setState(StatePushing)

	entries, err := c.outbox.DrainBatch(ctx, c.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to drain outbox: %w", err)
	}

	if len(entries) == 0 {
		return nil
	}

	req := api.PushRequest{Entries: make([]api.PushEntry, 0, len(entries))}
	for _, entry := range entries {
		req.Entries = append(req.Entries, api.PushEntry{
			RecordID:       entry.RecordID,
			Operation:      string(entry.Operation),
			IdempotencyKey: entry.IdempotencyKey,
			Payload:        entry.Payload,
			BaseVersion:    entry.BaseVersion,
			CreatedAt:      entry.CreatedAt,
		})
	}

	c.setState(StateAwaitingPushResult)

	var resp *api.PushResponse
	err = c.withBackoff(ctx, StateAwaitingPushResult, func(ctx context.Context) error {
		var pushErr error
		resp, pushErr = c.apiClient.Push(ctx, accessToken, req)
		return pushErr
	})
	if err != nil {
		// Outbox untouched: the entire batch is safe to resend.
		return fmt.Errorf("push failed: %w", err)
	}

	result.Pushed = len(entries)

	for _, res := range resp.Results {
		if err := c.applyPushResult(ctx, res, result); err != nil {
			return err
		}
	}

	return nil
}

// applyPushResult применяет один server outcome к локальному состоянию.
func (c *Coordinator) applyPushResult(ctx context.Context, res api.PushResult, result *SessionResult) error {
	switch res.Status {
	case api.StatusAccepted:
		if err := c.applyOutcome(ctx, res.RecordID, res.Version); err != nil {
			return err
		}
		if err := c.outbox.Acknowledge(ctx, res.RecordID); err != nil {
			return fmt.Errorf("failed to acknowledge %s: %w", res.RecordID, err)
		}
		result.Accepted++

	case api.StatusRejected:
		// Permanent reject: acknowledged so it is never retried, surfaced
		// to the caller as a user-visible failure.
		if err := c.outbox.Acknowledge(ctx, res.RecordID); err != nil {
			return fmt.Errorf("failed to acknowledge %s: %w", res.RecordID, err)
		}
		result.Rejected = append(result.Rejected, RejectedRecord{
			RecordID: res.RecordID,
			Reason:   res.Reason,
		})
		c.logger.Warn("record rejected by server",
			"record_id", res.RecordID,
			"reason", res.Reason)

	case api.StatusConflicted:
		result.Conflicted++
		c.addConflicts(1)

		if res.Resolution == api.ResolutionManual {
			// Needs manual resolution: the entry stays in the outbox
			// until resolved.
			result.ManualConflicts++
			c.logger.Warn("conflict requires manual resolution",
				"record_id", res.RecordID,
				"server_version", res.Version)
			return nil
		}

		// Auto-resolved by the server; the assigned version is definitive.
		if err := c.applyOutcome(ctx, res.RecordID, res.Version); err != nil {
			return err
		}
		if err := c.outbox.Acknowledge(ctx, res.RecordID); err != nil {
			return fmt.Errorf("failed to acknowledge %s: %w", res.RecordID, err)
		}
		c.logger.Info("conflict auto-resolved",
			"record_id", res.RecordID,
			"resolution", res.Resolution,
			"version", res.Version)

	default:
		c.logger.Warn("unknown push status ignored",
			"record_id", res.RecordID,
			"status", res.Status)
	}

	return nil
}

// applyOutcome записывает server version, игнорируя устаревшие ответы.
func (c *Coordinator) applyOutcome(ctx context.Context, recordID string, version int64) error {
	err := c.revisions.ApplyServerOutcome(ctx, recordID, version)
	if err == nil {
		return nil
	}

	var staleErr *storage.StaleApplyError
	if errors.As(err, &staleErr) {
		// Out-of-order response: local state is already newer.
		c.logger.Debug("ignoring stale push outcome",
			"record_id", recordID,
			"stored", staleErr.Stored,
			"applied", staleErr.Applied)
		return nil
	}

	return fmt.Errorf("failed to apply outcome for %s: %w", recordID, err)
}

// pull запрашивает изменения после checkpoint и применяет их локально.
func (c *Coordinator) pull(ctx context.Context, accessToken string, result *SessionResult) error {
	c.setState(StatePulling)

	since, err := c.checkpoint.GetCheckpoint(ctx)
	if err != nil {
		return fmt.Errorf("failed to read checkpoint: %w", err)
	}

	c.setState(StateAwaitingPullResult)

	var resp *api.PullResponse
	err = c.withBackoff(ctx, StateAwaitingPullResult, func(ctx context.Context) error {
		var pullErr error
		resp, pullErr = c.apiClient.Pull(ctx, accessToken, since)
		return pullErr
	})
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	for _, rec := range resp.Records {
		record := &models.Record{
			ID:        rec.RecordID,
			Payload:   rec.Payload,
			Version:   rec.Version,
			Deleted:   rec.Deleted,
			UpdatedAt: rec.UpdatedAt,
		}
		if err := c.revisions.ApplyPulledRecord(ctx, record); err != nil {
			return fmt.Errorf("failed to apply pulled record %s: %w", rec.RecordID, err)
		}
	}

	result.Pulled = len(resp.Records)

	// Checkpoint advances to the server-reported time, never the client
	// clock, and only after the whole pull applied.
	if err := c.checkpoint.SaveCheckpoint(ctx, resp.ServerTime); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	result.Checkpoint = resp.ServerTime

	return nil
}

// withBackoff retries fn on transient network errors with capped exponential
// delay. The state machine sits in Backoff during the delay and returns to
// resumeState for the next attempt. Permanent errors abort immediately.
func (c *Coordinator) withBackoff(ctx context.Context, resumeState State, fn func(ctx context.Context) error) error {
	backoff := retry.NewExponential(c.cfg.BackoffBase)
	backoff = retry.WithCappedDuration(c.cfg.BackoffCap, backoff)
	backoff = retry.WithMaxRetries(c.cfg.MaxRetries, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		c.setState(resumeState)

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var netErr *httpapi.NetworkError
		if errors.As(err, &netErr) {
			c.setState(StateBackoff)
			c.logger.Warn("transient network error, backing off", "error", err)
			return retry.RetryableError(err)
		}

		return err
	})
}
