package api

import "time"

// Checkpoint is the opaque cursor marking pull progress over an entity
// stream. Checkpoints are totally ordered by (UpdatedAt, ID) ascending and
// must be monotonically non-decreasing across successive pulls for the
// same stream.
type Checkpoint struct {
	UpdatedAt time.Time `json:"updatedAt"`
	ID        string    `json:"id"`
}

// IsZero reports whether the checkpoint is the start-of-stream cursor.
func (c Checkpoint) IsZero() bool {
	return c.UpdatedAt.IsZero() && c.ID == ""
}

// Admits reports whether an entity at (updatedAt, id) lies strictly after
// the checkpoint. The id tie-break is mandatory: without it two documents
// sharing a timestamp at a page boundary could be skipped forever.
func (c Checkpoint) Admits(updatedAt time.Time, id string) bool {
	if updatedAt.After(c.UpdatedAt) {
		return true
	}
	return updatedAt.Equal(c.UpdatedAt) && id > c.ID
}

// Before reports whether c orders strictly before other under the
// (UpdatedAt, ID) total order.
func (c Checkpoint) Before(other Checkpoint) bool {
	return other.Admits(c.UpdatedAt, c.ID)
}

// ErrorInfo is the wire representation of a typed application error.
// MessageKey is stable and localizable; Details carry optional structured
// context for the UI.
type ErrorInfo struct {
	Kind       string         `json:"kind"`
	MessageKey string         `json:"messageKey"`
	Details    map[string]any `json:"details,omitempty"`
}

// ConflictData carries both sides of a detected write conflict.
type ConflictData[T any] struct {
	Server *T `json:"server,omitempty"`
	Local  T  `json:"local"`
}

// SyncDocument wraps a domain entity with replication metadata. After push
// processing exactly one of ValidationError, Conflicted or SyncedAt is set
// on each returned document.
//
// AssumedMasterState is the last server state the client believed was
// current. It is used only for conflict detection and is never persisted.
type SyncDocument[T any] struct {
	Document           T                `json:"document"`
	Deleted            bool             `json:"_deleted,omitempty"`
	Conflicted         bool             `json:"_conflicted,omitempty"`
	ConflictData       *ConflictData[T] `json:"_conflictData,omitempty"`
	ValidationError    *ErrorInfo       `json:"_validationError,omitempty"`
	SyncedAt           *time.Time       `json:"_syncedAt,omitempty"`
	AssumedMasterState *T               `json:"assumedMasterState,omitempty"`
}

// PullRequest asks for the next page of changes after Checkpoint.
type PullRequest struct {
	Checkpoint Checkpoint `json:"checkpoint"`
	BatchSize  int        `json:"batchSize"`
}

// PullResponse returns up to BatchSize documents and the cursor to resume
// from. An empty Documents slice returns the request checkpoint unchanged,
// signalling the replication driver to back off.
type PullResponse[T any] struct {
	Documents  []SyncDocument[T] `json:"documents"`
	Checkpoint Checkpoint        `json:"checkpoint"`
}

// PushRequest submits locally written documents for reconciliation. The
// response carries one document per entry, same order as the input.
type PushRequest[T any] struct {
	Entries []SyncDocument[T] `json:"entries"`
}
