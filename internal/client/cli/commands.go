package cli

import (
	"context"
	"fmt"
)

// Run выполняет одну команду CLI.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "put":
		return c.runPut(ctx, args)
	case "get":
		return c.runGet(ctx, args)
	case "list":
		return c.runList(ctx)
	case "delete":
		return c.runDelete(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "watch":
		return c.runWatch(ctx)
	case "conflicts":
		return c.runConflicts(ctx)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
