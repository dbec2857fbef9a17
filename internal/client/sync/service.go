// Package sync is the client's replication driver. It drains the pending
// push queue, then pulls pages until the backend reports no more changes,
// advancing the checkpoint after every applied page.
package sync

import (
	"context"
	"fmt"
	"log/slog"

	httpClient "github.com/Gustavohps10/timelapse-sub001/internal/client/api"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/storage"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service runs replication rounds against the server.
type Service interface {
	// Sync pushes queued local writes, then pulls until the backend
	// has nothing newer than the checkpoint.
	Sync(ctx context.Context, session *storage.Session) (*SyncResult, error)

	// PendingCount returns the number of local writes waiting to be
	// pushed.
	PendingCount(ctx context.Context, workspaceID string) (int, error)
}

const (
	pushBatchSize = 50
	pullBatchSize = 100
)

type service struct {
	apiClient   httpClient.ClientAPI
	entries     storage.EntryStorage
	checkpoints storage.CheckpointStorage
	logger      *slog.Logger
}

// NewService creates a replication driver.
func NewService(apiClient httpClient.ClientAPI, entries storage.EntryStorage, checkpoints storage.CheckpointStorage, logger *slog.Logger) Service {
	return &service{
		apiClient:   apiClient,
		entries:     entries,
		checkpoints: checkpoints,
		logger:      logger,
	}
}

// SyncResult contains one replication round's counters.
type SyncResult struct {
	Pushed    int // documents accepted by the backend
	Pulled    int // documents received and applied locally
	Conflicts int // pushes that lost to a newer server revision
	Rejected  int // pushes refused with a validation error
}

func (s *service) Sync(ctx context.Context, session *storage.Session) (*SyncResult, error) {
	s.logger.Info("starting synchronization", "workspace_id", session.WorkspaceID)

	result := &SyncResult{}

	if err := s.pushPending(ctx, session, result); err != nil {
		return nil, err
	}
	if err := s.pullAll(ctx, session, result); err != nil {
		return nil, err
	}

	s.logger.Info("synchronization finished",
		"pushed", result.Pushed,
		"pulled", result.Pulled,
		"conflicts", result.Conflicts,
		"rejected", result.Rejected)
	return result, nil
}

func (s *service) PendingCount(ctx context.Context, workspaceID string) (int, error) {
	return s.entries.PendingCount(ctx, workspaceID)
}

// pushPending drains the queue batch by batch. Replaying a batch after a
// mid-round failure is safe: the backend treats an already-applied write
// as an update to the same state.
func (s *service) pushPending(ctx context.Context, session *storage.Session, result *SyncResult) error {
	pending, err := s.entries.ListPending(ctx, session.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to list pending documents: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	s.logger.Info("pushing local changes", "count", len(pending))

	for start := 0; start < len(pending); start += pushBatchSize {
		end := min(start+pushBatchSize, len(pending))

		results, err := s.apiClient.Push(ctx, session.WorkspaceID, session.Token, api.PushRequest[api.TimeEntry]{
			Entries: pending[start:end],
		})
		if err != nil {
			return fmt.Errorf("push request failed: %w", err)
		}

		for _, doc := range results {
			if err := s.applyPushResult(ctx, session.WorkspaceID, doc, result); err != nil {
				return err
			}
		}
	}

	return nil
}

// applyPushResult settles one queued document against the backend's
// verdict. Whatever the outcome, the document leaves the queue: a
// conflict adopts the server revision, a validation error drops the
// local write.
func (s *service) applyPushResult(ctx context.Context, workspaceID string, doc api.SyncDocument[api.TimeEntry], result *SyncResult) error {
	switch {
	case doc.Conflicted:
		result.Conflicts++
		s.logger.Warn("push conflict, adopting server state", "entry_id", doc.Document.ID)
		if doc.ConflictData != nil && doc.ConflictData.Server != nil {
			if err := s.entries.UpsertEntry(ctx, workspaceID, *doc.ConflictData.Server); err != nil {
				return fmt.Errorf("failed to store server revision: %w", err)
			}
		}
	case doc.ValidationError != nil:
		result.Rejected++
		s.logger.Warn("push rejected",
			"entry_id", doc.Document.ID,
			"message_key", doc.ValidationError.MessageKey)
	case doc.Deleted:
		result.Pushed++
		if err := s.entries.DeleteEntry(ctx, workspaceID, doc.Document.ID); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
	default:
		result.Pushed++
		if err := s.entries.UpsertEntry(ctx, workspaceID, doc.Document); err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}
	}

	if err := s.entries.RemovePending(ctx, workspaceID, doc.Document.ID); err != nil {
		return fmt.Errorf("failed to dequeue document: %w", err)
	}
	return nil
}

// pullAll pages through server changes until a page comes back empty.
// The checkpoint is saved after each applied page, so a failure mid-run
// resumes where it left off instead of starting over.
func (s *service) pullAll(ctx context.Context, session *storage.Session, result *SyncResult) error {
	cp, err := s.checkpoints.GetCheckpoint(ctx, session.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	for {
		resp, err := s.apiClient.Pull(ctx, session.WorkspaceID, session.Token, api.PullRequest{
			Checkpoint: cp,
			BatchSize:  pullBatchSize,
		})
		if err != nil {
			return fmt.Errorf("pull request failed: %w", err)
		}
		if len(resp.Documents) == 0 {
			return nil
		}

		for _, doc := range resp.Documents {
			if doc.Deleted {
				if err := s.entries.DeleteEntry(ctx, session.WorkspaceID, doc.Document.ID); err != nil {
					return fmt.Errorf("failed to delete entry: %w", err)
				}
			} else {
				if err := s.entries.UpsertEntry(ctx, session.WorkspaceID, doc.Document); err != nil {
					return fmt.Errorf("failed to store entry: %w", err)
				}
			}
			result.Pulled++
		}

		cp = resp.Checkpoint
		if err := s.checkpoints.SaveCheckpoint(ctx, session.WorkspaceID, cp); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}
	}
}
