package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

const timeLayout = "2006-01-02 15:04"

// runLog records a time entry into the pending queue. The entry reaches
// the backend on the next 'timelapse sync'.
func (c *Cli) runLog(ctx context.Context, args []string) error {
	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Log Time Entry ===")
	c.io.Println()

	taskID, err := c.io.ReadInput("Task ID: ")
	if err != nil {
		return fmt.Errorf("failed to read task id: %w", err)
	}
	if taskID == "" {
		return fmt.Errorf("task id cannot be empty")
	}

	start, err := c.readTime("Start (YYYY-MM-DD HH:MM): ")
	if err != nil {
		return err
	}
	end, err := c.readTime("End (YYYY-MM-DD HH:MM): ")
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("end must not be before start")
	}

	comments, err := c.io.ReadInput("Comments (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read comments: %w", err)
	}
	activityID, err := c.io.ReadInput("Activity ID (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read activity id: %w", err)
	}

	now := time.Now().UTC()
	entry := api.TimeEntry{
		ID:        uuid.New().String(),
		Task:      api.TaskRef{ID: taskID},
		Activity:  api.ActivityRef{ID: activityID},
		StartDate: start,
		EndDate:   end,
		TimeSpent: end.Sub(start).Hours(),
		Comments:  comments,
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc := api.SyncDocument[api.TimeEntry]{Document: entry}
	if err := c.entries.EnqueuePending(ctx, session.WorkspaceID, doc); err != nil {
		return fmt.Errorf("failed to queue entry: %w", err)
	}

	c.io.Println()
	c.io.Printf("Queued entry %s (%.2fh). Run 'timelapse sync' to push.\n", entry.ID, entry.TimeSpent)
	return nil
}

func (c *Cli) runEntries(ctx context.Context) error {
	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	entries, err := c.entries.ListEntries(ctx, session.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		c.io.Println("No cached entries. Run 'timelapse sync' to pull.")
		return nil
	}

	for _, entry := range entries {
		c.io.Printf("%-36s  task %-10s  %s  %.2fh  %s\n",
			entry.ID,
			entry.Task.ID,
			entry.StartDate.Local().Format(timeLayout),
			entry.TimeSpent,
			entry.Comments)
	}
	return nil
}

func (c *Cli) readTime(prompt string) (time.Time, error) {
	input, err := c.io.ReadInput(prompt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read time: %w", err)
	}
	t, err := time.ParseInLocation(timeLayout, input, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected YYYY-MM-DD HH:MM", input)
	}
	return t.UTC(), nil
}
