package workspaces

import (
	"context"
	"errors"

	"github.com/Gustavohps10/timelapse-sub001/internal/models"
)

// Common workspace storage errors
var (
	// ErrWorkspaceNotFound indicates that the workspace does not exist
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrWorkspaceExists indicates a duplicate workspace id
	ErrWorkspaceExists = errors.New("workspace already exists")
)

//go:generate moq -out storage_mock.go . Storage

// Storage persists workspaces. The sync core never hard-deletes them.
type Storage interface {
	// Create inserts a new workspace.
	// Returns ErrWorkspaceExists on duplicate id.
	Create(ctx context.Context, workspace *models.Workspace) error

	// GetByID returns the workspace with the given id.
	// Returns ErrWorkspaceNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*models.Workspace, error)

	// List returns all workspaces ordered by creation time.
	List(ctx context.Context) ([]*models.Workspace, error)

	// Update persists the given workspace state.
	// Returns ErrWorkspaceNotFound if it does not exist.
	Update(ctx context.Context, workspace *models.Workspace) error
}
