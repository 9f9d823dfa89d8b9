package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/syncbox/internal/client/storage"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Client Registration ===")

	clientName, err := c.io.ReadInput("Client name: ")
	if err != nil {
		return fmt.Errorf("failed to read client name: %w", err)
	}

	secret, err := c.io.ReadPassword("Secret: ")
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	confirm, err := c.io.ReadPassword("Confirm secret: ")
	if err != nil {
		return fmt.Errorf("failed to read secret confirmation: %w", err)
	}
	if secret != confirm {
		return fmt.Errorf("secrets do not match")
	}

	clientID, err := c.authService.Register(ctx, clientName, secret)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registration successful!")
	c.io.Printf("Client ID: %s\n", clientID)
	c.io.Println("Run 'syncbox login' to start syncing.")
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")

	clientName, err := c.io.ReadInput("Client name: ")
	if err != nil {
		return fmt.Errorf("failed to read client name: %w", err)
	}

	secret, err := c.io.ReadPassword("Secret: ")
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}

	if err := c.authService.Login(ctx, clientName, secret); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Login successful!")
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return err
	}
	c.io.Println("Logged out.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")

	authData, err := c.authService.Status(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Not authenticated. Run 'syncbox login' first.")
			return nil
		}
		return fmt.Errorf("failed to get auth status: %w", err)
	}

	c.io.Printf("Client name: %s\n", authData.ClientName)
	if authData.ClientID != "" {
		c.io.Printf("Client ID:   %s\n", authData.ClientID)
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0)
	if time.Now().After(expiresAt) {
		c.io.Println("Token:       expired, please login again")
	} else {
		c.io.Printf("Token:       valid until %s\n", expiresAt.Format(time.RFC3339))
	}

	pending, err := c.coordinator.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending entries: %w", err)
	}
	c.io.Printf("Pending:     %d entries waiting for sync\n", pending)

	if unresolved := c.coordinator.UnresolvedConflicts(); unresolved > 0 {
		c.io.Printf("Conflicts:   %d awaiting manual resolution\n", unresolved)
	}

	return nil
}
