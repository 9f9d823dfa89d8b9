package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/syncbox/internal/client/auth"
	"github.com/iudanet/syncbox/internal/client/storage"
)

func (c *Cli) accessToken(ctx context.Context) (string, error) {
	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return "", fmt.Errorf("not authenticated. Please run 'syncbox login' first")
		}
		if errors.Is(err, auth.ErrTokenExpired) {
			return "", err
		}
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	return token, nil
}

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	result, err := c.coordinator.Sync(ctx, token)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	c.io.Println("Synchronization completed.")
	c.io.Printf("Pushed:   %d entries (%d accepted, %d conflicted)\n",
		result.Pushed, result.Accepted, result.Conflicted)
	c.io.Printf("Pulled:   %d records\n", result.Pulled)
	if len(result.Rejected) > 0 {
		c.io.Printf("Rejected: %d entries\n", len(result.Rejected))
		for _, rej := range result.Rejected {
			c.io.Printf("  %s: %s\n", rej.RecordID, rej.Reason)
		}
	}
	if result.ManualConflicts > 0 {
		c.io.Printf("Manual:   %d conflicts need resolution before the next push\n",
			result.ManualConflicts)
	}
	if !result.Checkpoint.IsZero() {
		c.io.Printf("Checkpoint: %s\n", result.Checkpoint.Format(time.RFC3339))
	}
	return nil
}

// runWatch синхронизируется в фоне до прерывания (Ctrl-C).
func (c *Cli) runWatch(ctx context.Context) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	c.io.Println("Watching for changes. Press Ctrl-C to stop.")

	// First cycle immediately, then on every tick.
	c.coordinator.TriggerSync()

	if err := c.coordinator.Run(ctx, token); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("background sync stopped: %w", err)
	}

	c.io.Println("Stopped.")
	return nil
}

func (c *Cli) runConflicts(ctx context.Context) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.Conflicts(ctx, token, 50)
	if err != nil {
		return fmt.Errorf("failed to fetch conflicts: %w", err)
	}

	if len(resp.Conflicts) == 0 {
		c.io.Println("No conflicts recorded.")
		return nil
	}

	c.io.Printf("%-40s %-12s %-8s %-8s %s\n", "ID", "RESOLUTION", "CLIENT", "SERVER", "OCCURRED")
	for _, conflict := range resp.Conflicts {
		c.io.Printf("%-40s %-12s %-8d %-8d %s\n",
			conflict.RecordID, conflict.Resolution,
			conflict.ClientVersion, conflict.ServerVersion,
			conflict.OccurredAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
