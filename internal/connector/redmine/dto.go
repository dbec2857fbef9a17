package redmine

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/models"
)

// Redmine wire shapes. Ids are numeric on the wire and strings in the
// domain; dates mix "2006-01-02" and RFC 3339 depending on the field.

type namedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type wireTimeEntry struct {
	ID        int64    `json:"id"`
	Issue     namedRef `json:"issue"`
	User      namedRef `json:"user"`
	Activity  namedRef `json:"activity"`
	Hours     float64  `json:"hours"`
	Comments  string   `json:"comments"`
	SpentOn   string   `json:"spent_on"`
	CreatedOn string   `json:"created_on"`
	UpdatedOn string   `json:"updated_on"`
}

type timeEntriesResponse struct {
	TimeEntries []wireTimeEntry `json:"time_entries"`
	TotalCount  int             `json:"total_count"`
	Offset      int             `json:"offset"`
	Limit       int             `json:"limit"`
}

type timeEntryResponse struct {
	TimeEntry wireTimeEntry `json:"time_entry"`
}

// timeEntryPayload is the write shape for POST/PUT /time_entries.
type timeEntryPayload struct {
	IssueID    int64   `json:"issue_id"`
	SpentOn    string  `json:"spent_on"`
	Hours      float64 `json:"hours"`
	ActivityID int64   `json:"activity_id,omitempty"`
	Comments   string  `json:"comments,omitempty"`
}

type timeEntryEnvelope struct {
	TimeEntry timeEntryPayload `json:"time_entry"`
}

type wireIssue struct {
	ID          int64    `json:"id"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Status      namedRef `json:"status"`
	AssignedTo  namedRef `json:"assigned_to"`
	Project     namedRef `json:"project"`
	CreatedOn   string   `json:"created_on"`
	UpdatedOn   string   `json:"updated_on"`
}

type issuesResponse struct {
	Issues     []wireIssue `json:"issues"`
	TotalCount int         `json:"total_count"`
}

type issueResponse struct {
	Issue wireIssue `json:"issue"`
}

type issuePayload struct {
	Subject      string `json:"subject,omitempty"`
	Description  string `json:"description,omitempty"`
	StatusID     int64  `json:"status_id,omitempty"`
	AssignedToID int64  `json:"assigned_to_id,omitempty"`
	ProjectID    int64  `json:"project_id,omitempty"`
}

type issueEnvelope struct {
	Issue issuePayload `json:"issue"`
}

type wireUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type userResponse struct {
	User wireUser `json:"user"`
}

type usersResponse struct {
	Users      []wireUser `json:"users"`
	TotalCount int        `json:"total_count"`
}

func (e wireTimeEntry) toModel() models.TimeEntry {
	start := parseWireTime(e.SpentOn)
	return models.TimeEntry{
		ID:        formatID(e.ID),
		Task:      models.TaskRef{ID: formatID(e.Issue.ID)},
		Activity:  models.ActivityRef{ID: formatID(e.Activity.ID), Name: e.Activity.Name},
		User:      models.UserRef{ID: formatID(e.User.ID), Name: e.User.Name},
		StartDate: start,
		EndDate:   start.Add(time.Duration(e.Hours * float64(time.Hour))),
		TimeSpent: e.Hours,
		Comments:  e.Comments,
		CreatedAt: parseWireTime(e.CreatedOn),
		UpdatedAt: parseWireTime(e.UpdatedOn),
	}
}

func (i wireIssue) toModel() models.Task {
	return models.Task{
		ID:          formatID(i.ID),
		Subject:     i.Subject,
		Description: i.Description,
		Status:      i.Status.Name,
		AssigneeID:  formatID(i.AssignedTo.ID),
		ProjectID:   formatID(i.Project.ID),
		CreatedAt:   parseWireTime(i.CreatedOn),
		UpdatedAt:   parseWireTime(i.UpdatedOn),
	}
}

func (u wireUser) toMember() models.Member {
	return models.Member{
		ID:    formatID(u.ID),
		Name:  strings.TrimSpace(u.Firstname + " " + u.Lastname),
		Login: u.Login,
	}
}

func toPayload(entry models.TimeEntry) timeEntryEnvelope {
	return timeEntryEnvelope{
		TimeEntry: timeEntryPayload{
			IssueID:    parseID(entry.Task.ID),
			SpentOn:    entry.StartDate.Format("2006-01-02"),
			Hours:      entry.TimeSpent,
			ActivityID: parseID(entry.Activity.ID),
			Comments:   entry.Comments,
		},
	}
}

// formatID renders a numeric backend id as a fixed-width decimal string.
// Checkpoint cursors compare ids lexicographically while Redmine sorts
// id:asc numerically; zero-padding keeps the two orders identical.
func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("%010d", id)
}

func parseID(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}

// idPath renders an id as a URL path segment, stripping the padding for
// the backend. Accepts bare ids too.
func idPath(id string) string {
	if n := parseID(id); n > 0 {
		return strconv.FormatInt(n, 10)
	}
	return url.PathEscape(id)
}

// parseWireTime accepts the formats Redmine emits: RFC 3339 timestamps for
// created_on/updated_on and bare dates for spent_on.
func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02", s)
	return t
}
