package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/internal/syncer"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

type timeEntryQuery struct {
	store *Store
}

func (q *timeEntryQuery) FindAll(ctx context.Context, p connector.Pagination) (connector.Page[models.TimeEntry], error) {
	entries := q.store.listTimeEntries()
	sortByID(entries)
	return paginate(entries, p), nil
}

func (q *timeEntryQuery) FindByID(ctx context.Context, id string) (models.TimeEntry, error) {
	entry, ok := q.store.TimeEntry(id)
	if !ok {
		return models.TimeEntry{}, apperrors.NotFound("timeEntry.notFound").WithDetails(map[string]any{"id": id})
	}
	return entry, nil
}

func (q *timeEntryQuery) FindByIDs(ctx context.Context, ids []string) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := q.store.TimeEntry(id); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (q *timeEntryQuery) FindByCondition(ctx context.Context, cond connector.Condition, p connector.Pagination) (connector.Page[models.TimeEntry], error) {
	matched, err := q.match(cond)
	if err != nil {
		return connector.Page[models.TimeEntry]{}, err
	}
	sortByID(matched)
	return paginate(matched, p), nil
}

func (q *timeEntryQuery) Count(ctx context.Context, cond connector.Condition) (int, error) {
	matched, err := q.match(cond)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (q *timeEntryQuery) Exists(ctx context.Context, cond connector.Condition) (bool, error) {
	count, err := q.Count(ctx, cond)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *timeEntryQuery) FindByMemberID(ctx context.Context, memberID string, start, end time.Time) ([]models.TimeEntry, error) {
	var matched []models.TimeEntry
	for _, entry := range q.store.listTimeEntries() {
		if entry.User.ID != memberID {
			continue
		}
		if entry.StartDate.Before(start) || entry.EndDate.After(end) {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartDate.Before(matched[j].StartDate) })
	return matched, nil
}

func (q *timeEntryQuery) ReadSince(ctx context.Context, cp api.Checkpoint, limit int) ([]models.TimeEntry, error) {
	var matched []models.TimeEntry
	for _, entry := range q.store.listTimeEntries() {
		if cp.Admits(entry.UpdatedAt, entry.ID) {
			matched = append(matched, entry)
		}
	}
	syncer.SortForPull(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (q *timeEntryQuery) match(cond connector.Condition) ([]models.TimeEntry, error) {
	entries := q.store.listTimeEntries()
	var matched []models.TimeEntry
	for _, entry := range entries {
		ok, err := timeEntryMatches(entry, cond)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func timeEntryMatches(entry models.TimeEntry, cond connector.Condition) (bool, error) {
	for field, want := range cond {
		var got string
		switch field {
		case "id":
			got = entry.ID
		case "user.id":
			got = entry.User.ID
		case "task.id":
			got = entry.Task.ID
		case "activity.id":
			got = entry.Activity.ID
		default:
			return false, apperrors.Validation("query.unsupportedField").WithDetails(map[string]any{"field": field})
		}
		if got != fmt.Sprint(want) {
			return false, nil
		}
	}
	return true, nil
}

type timeEntryMutation struct {
	store *Store
}

func (m *timeEntryMutation) Create(ctx context.Context, entry models.TimeEntry) (models.TimeEntry, error) {
	if entry.ID == "" {
		return models.TimeEntry{}, apperrors.Validation("timeEntry.idRequired")
	}
	if _, exists := m.store.TimeEntry(entry.ID); exists {
		return models.TimeEntry{}, apperrors.Validation("timeEntry.alreadyExists").WithDetails(map[string]any{"id": entry.ID})
	}
	// Timestamps are client-authoritative: the document is stored verbatim
	// so the pull order and conflict comparisons see exactly what the
	// client wrote.
	m.store.putTimeEntry(entry)
	return entry, nil
}

func (m *timeEntryMutation) Update(ctx context.Context, id string, entry models.TimeEntry) (models.TimeEntry, error) {
	if _, exists := m.store.TimeEntry(id); !exists {
		return models.TimeEntry{}, apperrors.NotFound("timeEntry.notFound").WithDetails(map[string]any{"id": id})
	}
	entry.ID = id
	m.store.putTimeEntry(entry)
	return entry, nil
}

func (m *timeEntryMutation) Delete(ctx context.Context, id string) error {
	m.store.deleteTimeEntry(id)
	return nil
}

// paginate cuts a sorted slice into the requested page.
func paginate[T any](items []T, p connector.Pagination) connector.Page[T] {
	p = p.Normalize()
	total := len(items)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return connector.Page[T]{
		Items:    append([]T(nil), items[start:end]...),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

func sortByID[T interface{ SyncID() string }](items []T) {
	sort.Slice(items, func(i, j int) bool { return items[i].SyncID() < items[j].SyncID() })
}
