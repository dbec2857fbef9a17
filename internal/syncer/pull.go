// Package syncer implements the checkpoint-based pull algorithm and the
// conflict-aware push processor at the heart of the replication protocol.
package syncer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// DefaultBatchSize applies when a pull request carries no batch size.
const DefaultBatchSize = 100

// Syncable is an entity that can travel through the replication protocol.
type Syncable interface {
	SyncID() string
	SyncUpdatedAt() time.Time
}

// PageReader reads one page of an ordered entity collection. ReadSince
// should return up to limit entities strictly after cp, ordered ascending
// by (updatedAt, id); Pull re-checks both properties, so a reader that
// over-fetches or returns unsorted data still yields a correct page.
type PageReader[T Syncable] interface {
	ReadSince(ctx context.Context, cp api.Checkpoint, limit int) ([]T, error)
}

// PullPage is the result of one pull call.
type PullPage[T Syncable] struct {
	Documents  []api.SyncDocument[T]
	Checkpoint api.Checkpoint
}

// Pull reads the next page of changes after cp.
//
// Entities qualify when updatedAt > cp.updatedAt, or updatedAt equals
// cp.updatedAt and id > cp.id; the page is ordered ascending by
// (updatedAt, id) and truncated to batchSize. The returned checkpoint is
// the cursor of the last document, or cp unchanged when the page is empty,
// which tells the replication driver to back off.
//
// Delivery is gapless and monotonic under concurrent backend writes, at
// the cost of possibly re-delivering an unchanged document sitting exactly
// on a checkpoint boundary; consumers must apply pages idempotently.
//
// A reader failure fails the whole page: pull is read-only, so there is
// nothing to reconcile and the same checkpoint is safe to retry.
func Pull[T Syncable](ctx context.Context, reader PageReader[T], cp api.Checkpoint, batchSize int) (*PullPage[T], error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	entities, err := reader.ReadSince(ctx, cp, batchSize)
	if err != nil {
		return nil, fmt.Errorf("read since checkpoint: %w", err)
	}

	// Normalize whatever the reader produced: drop entities at or before
	// the cursor, restore (updatedAt, id) order, cut to one batch.
	filtered := entities[:0:0]
	for _, e := range entities {
		if cp.Admits(e.SyncUpdatedAt(), e.SyncID()) {
			filtered = append(filtered, e)
		}
	}
	SortForPull(filtered)
	if len(filtered) > batchSize {
		filtered = filtered[:batchSize]
	}

	page := &PullPage[T]{
		Documents:  make([]api.SyncDocument[T], 0, len(filtered)),
		Checkpoint: cp,
	}
	for _, e := range filtered {
		page.Documents = append(page.Documents, api.SyncDocument[T]{Document: e})
	}
	if last := len(filtered); last > 0 {
		page.Checkpoint = api.Checkpoint{
			UpdatedAt: filtered[last-1].SyncUpdatedAt(),
			ID:        filtered[last-1].SyncID(),
		}
	}

	return page, nil
}

// SortForPull orders entities ascending by (updatedAt, id), the total
// order the checkpoint cursor advances along.
func SortForPull[T Syncable](entities []T) {
	sort.SliceStable(entities, func(i, j int) bool {
		ui, uj := entities[i].SyncUpdatedAt(), entities[j].SyncUpdatedAt()
		if !ui.Equal(uj) {
			return ui.Before(uj)
		}
		return entities[i].SyncID() < entities[j].SyncID()
	})
}
