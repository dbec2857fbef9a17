package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// SaveCheckpoint stores the pull cursor for a workspace.
func (s *Storage) SaveCheckpoint(ctx context.Context, workspaceID string, cp api.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCheckpoints).Put([]byte(workspaceID), data)
	})
}

// GetCheckpoint returns the pull cursor for a workspace. A workspace that
// has never pulled gets the zero checkpoint.
func (s *Storage) GetCheckpoint(ctx context.Context, workspaceID string) (api.Checkpoint, error) {
	var cp api.Checkpoint

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketCheckpoints).Get([]byte(workspaceID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &cp)
	})
	if err != nil {
		return api.Checkpoint{}, err
	}
	return cp, nil
}

// DeleteCheckpoint removes the pull cursor for a workspace.
func (s *Storage) DeleteCheckpoint(ctx context.Context, workspaceID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCheckpoints).Delete([]byte(workspaceID))
	})
}
