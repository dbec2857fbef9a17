// Package boltdb implements the client storage contracts on bbolt.
package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	bucketSession     = []byte("session")
	bucketCheckpoints = []byte("checkpoints")
	bucketEntries     = []byte("entries")
	bucketPending     = []byte("pending")
)

// Storage is the bbolt-backed client storage. It implements
// storage.SessionStorage, storage.CheckpointStorage and
// storage.EntryStorage.
type Storage struct {
	db *bbolt.DB
}

// New opens the client database and creates the buckets.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}
	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketCheckpoints, bucketEntries, bucketPending} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// entryKey scopes a record to one workspace. Both halves are opaque ids,
// so the separator cannot collide.
func entryKey(workspaceID, id string) []byte {
	return []byte(workspaceID + "/" + id)
}

func workspacePrefix(workspaceID string) []byte {
	return []byte(workspaceID + "/")
}
