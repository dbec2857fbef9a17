package api

import "time"

// TaskRef references the task a time entry was logged against.
type TaskRef struct {
	ID string `json:"id"`
}

// ActivityRef identifies the kind of work performed.
type ActivityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserRef identifies the backend member owning an entity.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimeEntry is the wire representation of a tracked time entry.
type TimeEntry struct {
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	StartDate time.Time   `json:"startDate"`
	EndDate   time.Time   `json:"endDate"`
	ID        string      `json:"id"`
	Comments  string      `json:"comments"`
	Task      TaskRef     `json:"task"`
	Activity  ActivityRef `json:"activity"`
	User      UserRef     `json:"user"`
	TimeSpent float64     `json:"timeSpent"`
}
