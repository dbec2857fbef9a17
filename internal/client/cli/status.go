package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			c.io.Println("Status: not connected")
			c.io.Println()
			c.io.Println("Run 'timelapse connect <workspace-id>' to start a session.")
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	c.io.Println("Status: connected")
	c.io.Printf("Workspace: %s\n", session.WorkspaceID)

	cp, err := c.checkpoints.GetCheckpoint(ctx, session.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if cp.IsZero() {
		c.io.Println("Last pull: never")
	} else {
		c.io.Printf("Last pull: %s (entry %s)\n", cp.UpdatedAt.Format(time.RFC3339), cp.ID)
	}

	pending, err := c.syncService.PendingCount(ctx, session.WorkspaceID)
	if err != nil {
		c.io.Printf("Warning: failed to get pending count: %v\n", err)
		return nil
	}
	c.io.Printf("Pending pushes: %d\n", pending)
	return nil
}
