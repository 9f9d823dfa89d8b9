package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/syncbox/internal/client/storage"
)

func (c *Cli) runPut(ctx context.Context, args []string) error {
	var recordID string
	if len(args) > 0 {
		recordID = args[0]
	}

	payload, err := c.io.ReadInput("Payload (JSON): ")
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}
	if !json.Valid([]byte(payload)) {
		return fmt.Errorf("payload is not valid JSON")
	}

	rev, err := c.dataService.Put(ctx, recordID, []byte(payload))
	if err != nil {
		return err
	}

	c.io.Printf("Saved %s (local version %d)\n", rev.RecordID, rev.LocalVersion)
	c.io.Println("Run 'syncbox sync' to push the change to the server.")
	return nil
}

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing record id. Usage: syncbox get <id>")
	}

	rev, err := c.dataService.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			return fmt.Errorf("record %q not found", args[0])
		}
		return err
	}

	c.io.Printf("ID:             %s\n", rev.RecordID)
	c.io.Printf("Server version: %d\n", rev.ServerVersion)
	c.io.Printf("Local version:  %d\n", rev.LocalVersion)
	c.io.Printf("Payload:        %s\n", string(rev.Payload))
	return nil
}

func (c *Cli) runList(ctx context.Context) error {
	revisions, err := c.dataService.List(ctx)
	if err != nil {
		return err
	}

	if len(revisions) == 0 {
		c.io.Println("No records.")
		return nil
	}

	c.io.Printf("%-40s %-10s %s\n", "ID", "VERSION", "UPDATED")
	for _, rev := range revisions {
		c.io.Printf("%-40s %-10d %s\n",
			rev.RecordID, rev.ServerVersion, rev.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing record id. Usage: syncbox delete <id>")
	}

	if err := c.dataService.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			return fmt.Errorf("record %q not found", args[0])
		}
		return err
	}

	c.io.Printf("Deleted %s\n", args[0])
	c.io.Println("Run 'syncbox sync' to push the change to the server.")
	return nil
}
