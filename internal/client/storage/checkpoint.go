package storage

import (
	"context"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

//go:generate moq -out checkpoint_mock.go . CheckpointStorage

// CheckpointStorage persists the pull cursor per workspace. The cursor
// only ever moves forward; losing it means re-pulling from the beginning,
// which is safe because applying pulled documents is idempotent.
type CheckpointStorage interface {
	// SaveCheckpoint stores the cursor for a workspace.
	SaveCheckpoint(ctx context.Context, workspaceID string, cp api.Checkpoint) error

	// GetCheckpoint returns the cursor for a workspace, or the zero
	// checkpoint when none is stored yet.
	GetCheckpoint(ctx context.Context, workspaceID string) (api.Checkpoint, error)

	// DeleteCheckpoint removes the cursor for a workspace.
	DeleteCheckpoint(ctx context.Context, workspaceID string) error
}
