package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/Gustavohps10/timelapse-sub001/internal/client/storage"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// UpsertEntry writes an entry into the local cache.
func (s *Storage) UpsertEntry(ctx context.Context, workspaceID string, entry api.TimeEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).Put(entryKey(workspaceID, entry.ID), data)
	})
}

// GetEntry returns a cached entry.
func (s *Storage) GetEntry(ctx context.Context, workspaceID, id string) (*api.TimeEntry, error) {
	var entry api.TimeEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEntries).Get(entryKey(workspaceID, id))
		if data == nil {
			return storage.ErrEntryNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns all cached entries for a workspace.
func (s *Storage) ListEntries(ctx context.Context, workspaceID string) ([]api.TimeEntry, error) {
	var entries []api.TimeEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		prefix := workspacePrefix(workspaceID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var entry api.TimeEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal entry %s: %w", k, err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry removes an entry from the cache.
func (s *Storage) DeleteEntry(ctx context.Context, workspaceID, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).Delete(entryKey(workspaceID, id))
	})
}

// EnqueuePending stores a document awaiting push, keyed by entry id.
func (s *Storage) EnqueuePending(ctx context.Context, workspaceID string, doc api.SyncDocument[api.TimeEntry]) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal pending document: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPending).Put(entryKey(workspaceID, doc.Document.ID), data)
	})
}

// ListPending returns all queued documents for a workspace, ordered by
// entry id.
func (s *Storage) ListPending(ctx context.Context, workspaceID string) ([]api.SyncDocument[api.TimeEntry], error) {
	var docs []api.SyncDocument[api.TimeEntry]

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketPending).Cursor()
		prefix := workspacePrefix(workspaceID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var doc api.SyncDocument[api.TimeEntry]
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("failed to unmarshal pending document %s: %w", k, err)
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// RemovePending drops a queued document after a successful push.
func (s *Storage) RemovePending(ctx context.Context, workspaceID, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPending).Delete(entryKey(workspaceID, id))
	})
}

// PendingCount returns the number of queued documents for a workspace.
func (s *Storage) PendingCount(ctx context.Context, workspaceID string) (int, error) {
	count := 0

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketPending).Cursor()
		prefix := workspacePrefix(workspaceID)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
