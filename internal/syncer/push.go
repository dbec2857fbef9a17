package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// Document is a time entry travelling through push.
type Document = api.SyncDocument[models.TimeEntry]

// Processor reconciles batches of locally written time entries against the
// backend reached through the connector's adapters.
type Processor struct {
	entries connector.TimeEntryQuery
	writer  connector.TimeEntryMutation
	logger  *slog.Logger
	now     func() time.Time
}

// NewProcessor creates a push processor bound to one request's adapters.
func NewProcessor(entries connector.TimeEntryQuery, writer connector.TimeEntryMutation, logger *slog.Logger) *Processor {
	return &Processor{
		entries: entries,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
	}
}

// Push processes a batch of documents and returns one result per input
// document, same order. Documents are processed sequentially, never in
// parallel: when two documents in one batch reference the same entity id,
// the second must observe the effect of the first so conflict detection
// stays deterministic.
//
// Failures are captured per document; exactly one of ValidationError,
// Conflicted or SyncedAt is set on every result, and no failure aborts the
// rest of the batch.
func (p *Processor) Push(ctx context.Context, docs []Document) []Document {
	results := make([]Document, 0, len(docs))
	for i := range docs {
		result := p.process(ctx, docs[i])
		if result.ValidationError != nil {
			p.logger.Warn("push document rejected",
				"entry_id", docs[i].Document.ID,
				"message_key", result.ValidationError.MessageKey)
		}
		results = append(results, result)
	}
	return results
}

func (p *Processor) process(ctx context.Context, doc Document) (result Document) {
	out := doc
	defer func() {
		// An adapter panic counts as an unexpected per-document failure;
		// it must not abort the remaining entries in the batch.
		if r := recover(); r != nil {
			p.logger.Error("push document panicked", "entry_id", doc.Document.ID, "panic", r)
			out.SyncedAt = nil
			out.Conflicted = false
			out.ConflictData = nil
			out.ValidationError = apperrors.Internal("error.internal").Info()
			result = out
		}
	}()
	// Outcome tags are mutually exclusive; start from a clean slate and
	// never persist the client's assumed master state.
	out.Conflicted = false
	out.ConflictData = nil
	out.ValidationError = nil
	out.SyncedAt = nil
	out.AssumedMasterState = nil

	if err := p.validate(doc); err != nil {
		out.ValidationError = apperrors.From(err).Info()
		return out
	}

	if doc.Deleted {
		// Idempotent by contract: deleting a missing id is not an error.
		if err := p.writer.Delete(ctx, doc.Document.ID); err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
			out.ValidationError = apperrors.From(err).Info()
			return out
		}
		return p.stamped(out)
	}

	existing, err := p.entries.FindByID(ctx, doc.Document.ID)
	switch {
	case err == nil:
		return p.applyExisting(ctx, out, doc, existing)
	case apperrors.IsKind(err, apperrors.KindNotFound):
		return p.createNew(ctx, out, doc)
	default:
		out.ValidationError = apperrors.From(err).Info()
		return out
	}
}

// applyExisting runs the conflict check and, when clean, persists the
// incoming state over the stored entity.
func (p *Processor) applyExisting(ctx context.Context, out, doc Document, existing models.TimeEntry) Document {
	// The conflict check is skipped entirely when the client supplies no
	// assumed master state: such a client can silently overwrite
	// concurrent server changes. Documented behavior, kept as is.
	if assumed := doc.AssumedMasterState; assumed != nil && !assumed.UpdatedAt.Equal(existing.UpdatedAt) {
		server := existing.Clone()
		out.Conflicted = true
		out.ConflictData = &api.ConflictData[models.TimeEntry]{
			Server: server,
			Local:  doc.Document,
		}
		return out
	}

	incoming := doc.Document
	if incoming.CreatedAt.IsZero() {
		incoming.CreatedAt = existing.CreatedAt
	}
	if err := incoming.Validate(); err != nil {
		out.ValidationError = apperrors.From(err).Info()
		return out
	}

	// Known race: nothing bumps a version between the conflict read above
	// and this write, so two concurrent pushes for the same id can
	// interleave. The backend's consistency model governs.
	if _, err := p.writer.Update(ctx, incoming.ID, incoming); err != nil {
		out.ValidationError = apperrors.From(err).Info()
		return out
	}
	return p.stamped(out)
}

// createNew persists a document whose id is unknown to the backend.
func (p *Processor) createNew(ctx context.Context, out, doc Document) Document {
	entry, err := models.NewTimeEntry(doc.Document)
	if err != nil {
		out.ValidationError = apperrors.From(err).Info()
		return out
	}
	created, err := p.writer.Create(ctx, *entry)
	if err != nil {
		out.ValidationError = apperrors.From(err).Info()
		return out
	}
	out.Document = created
	return p.stamped(out)
}

// validate applies the document-level checks; domain invariants are
// enforced later by the entity itself.
func (p *Processor) validate(doc Document) error {
	if doc.Deleted {
		return nil
	}
	if doc.Document.ID == "" {
		return apperrors.Validation("syncDocument.idRequired")
	}
	if doc.Document.UpdatedAt.IsZero() {
		return apperrors.Validation("syncDocument.updatedAtRequired")
	}
	if doc.Document.Task.ID == "" {
		return apperrors.Validation("timeEntry.taskRequired")
	}
	return nil
}

func (p *Processor) stamped(out Document) Document {
	syncedAt := p.now()
	out.SyncedAt = &syncedAt
	return out
}
