package storage

import (
	"context"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

//go:generate moq -out entries_mock.go . EntryStorage

// EntryStorage is the local time entry cache plus the queue of documents
// waiting to be pushed. The cache mirrors the server's state as of the
// last pull; the queue holds local writes made while offline.
type EntryStorage interface {
	// UpsertEntry writes an entry into the local cache.
	UpsertEntry(ctx context.Context, workspaceID string, entry api.TimeEntry) error

	// GetEntry returns a cached entry.
	// Returns ErrEntryNotFound when no entry with that id is cached.
	GetEntry(ctx context.Context, workspaceID, id string) (*api.TimeEntry, error)

	// ListEntries returns all cached entries for a workspace.
	ListEntries(ctx context.Context, workspaceID string) ([]api.TimeEntry, error)

	// DeleteEntry removes an entry from the cache. Deleting a missing
	// entry is not an error.
	DeleteEntry(ctx context.Context, workspaceID, id string) error

	// EnqueuePending stores a document awaiting push, keyed by entry id.
	// A second write to the same id replaces the queued document.
	EnqueuePending(ctx context.Context, workspaceID string, doc api.SyncDocument[api.TimeEntry]) error

	// ListPending returns all queued documents for a workspace, ordered
	// by entry id.
	ListPending(ctx context.Context, workspaceID string) ([]api.SyncDocument[api.TimeEntry], error)

	// RemovePending drops a queued document after a successful push.
	RemovePending(ctx context.Context, workspaceID, id string) error

	// PendingCount returns the number of queued documents.
	PendingCount(ctx context.Context, workspaceID string) (int, error)
}
