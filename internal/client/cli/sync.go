package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runSync(ctx context.Context) error {
	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	c.io.Println("Synchronizing...")

	result, err := c.syncService.Sync(ctx, session)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Printf("Pushed:    %d\n", result.Pushed)
	c.io.Printf("Pulled:    %d\n", result.Pulled)
	if result.Conflicts > 0 {
		c.io.Printf("Conflicts: %d (server state kept)\n", result.Conflicts)
	}
	if result.Rejected > 0 {
		c.io.Printf("Rejected:  %d (invalid entries dropped)\n", result.Rejected)
	}
	return nil
}
