package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
)

// TaskRef references the task a time entry is logged against.
type TaskRef struct {
	ID string `json:"id"`
}

// ActivityRef identifies the kind of work performed (development, review,
// meeting and so on, as defined by the backend).
type ActivityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserRef identifies the backend member owning an entity.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimeEntry is the domain entity for tracked time. The record is owned by
// the backend reached through the active connector; any local copy is a
// cache.
type TimeEntry struct {
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	ID        string      `json:"id"`
	Comments  string      `json:"comments"`
	Task      TaskRef     `json:"task"`
	Activity  ActivityRef `json:"activity"`
	User      UserRef     `json:"user"`
	TimeSpent float64     `json:"time_spent"` // hours
}

// NewTimeEntry constructs a time entry through the domain factory,
// enforcing entity invariants. An empty id is replaced with a fresh UUID.
func NewTimeEntry(entry TimeEntry) (*TimeEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Validate checks the domain invariants shared by creation and update.
func (e *TimeEntry) Validate() error {
	switch {
	case e.Task.ID == "":
		return apperrors.Validation("timeEntry.taskRequired")
	case e.StartDate.IsZero() || e.EndDate.IsZero():
		return apperrors.Validation("timeEntry.rangeRequired")
	case e.EndDate.Before(e.StartDate):
		return apperrors.Validation("timeEntry.rangeInverted").WithDetails(map[string]any{
			"startDate": e.StartDate,
			"endDate":   e.EndDate,
		})
	case e.TimeSpent < 0:
		return apperrors.Validation("timeEntry.negativeTimeSpent")
	}
	return nil
}

// SyncID implements syncer.Syncable.
func (e TimeEntry) SyncID() string {
	return e.ID
}

// SyncUpdatedAt implements syncer.Syncable.
func (e TimeEntry) SyncUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Clone creates a deep copy of the time entry.
func (e *TimeEntry) Clone() *TimeEntry {
	clone := *e
	return &clone
}
