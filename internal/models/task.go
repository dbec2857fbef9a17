package models

import "time"

// Task is a unit of work pulled from the task-tracking backend. Tasks are
// read-mostly on this side; mutations flow back through the connector's
// task mutation adapter.
type Task struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AssigneeID  string    `json:"assignee_id"`
	ProjectID   string    `json:"project_id"`
}

// SyncID implements syncer.Syncable.
func (t Task) SyncID() string {
	return t.ID
}

// SyncUpdatedAt implements syncer.Syncable.
func (t Task) SyncUpdatedAt() time.Time {
	return t.UpdatedAt
}

// Member is a user of the task-tracking backend.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}
