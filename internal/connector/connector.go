// Package connector defines the pluggable data-source contract binding the
// sync protocol to concrete task-tracking backends, plus the registry the
// scoped resolver looks connectors up in.
package connector

import (
	"context"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// RuntimeContext is the per-request bundle of a workspace's plugin
// configuration and decrypted credentials. It is assembled fresh for every
// request and handed to connector factories; it is never cached across
// requests, because credentials can rotate between them.
type RuntimeContext struct {
	Config      map[string]string
	Credentials map[string]string
}

// Session identifies the authenticated backend member.
type Session struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
}

// AuthenticationStrategy validates the credentials carried by a
// RuntimeContext against the backend.
type AuthenticationStrategy interface {
	// Authenticate verifies the credentials and returns the backend member
	// they belong to. Fails with an unauthorized error when rejected.
	Authenticate(ctx context.Context) (*Session, error)
}

// TaskQuery reads tasks from the backend.
type TaskQuery interface {
	Query[models.Task]

	// FindByMemberID returns the tasks assigned to a member.
	FindByMemberID(ctx context.Context, memberID string, p Pagination) (Page[models.Task], error)
}

// MemberQuery reads backend members.
type MemberQuery interface {
	Query[models.Member]

	// Current returns the member the runtime credentials belong to.
	Current(ctx context.Context) (models.Member, error)
}

// TimeEntryQuery reads time entries from the backend. On top of the base
// contract it exposes the incremental-read operation the pull algorithm
// is built on.
type TimeEntryQuery interface {
	Query[models.TimeEntry]

	// FindByMemberID returns a member's entries inside [start, end].
	FindByMemberID(ctx context.Context, memberID string, start, end time.Time) ([]models.TimeEntry, error)

	// ReadSince returns up to limit entries strictly after cp, ordered
	// ascending by (updatedAt, id).
	ReadSince(ctx context.Context, cp api.Checkpoint, limit int) ([]models.TimeEntry, error)
}

// TaskMutation writes tasks to the backend.
type TaskMutation interface {
	Mutation[models.Task]
}

// TimeEntryMutation writes time entries to the backend.
type TimeEntryMutation interface {
	Mutation[models.TimeEntry]
}

// Connector is a stateless factory set keyed by (ID, DataSourceType). All
// per-tenant state arrives through the RuntimeContext at factory-call
// time; implementations must not store it.
type Connector interface {
	// ID is the unique connector (plugin) identifier.
	ID() string

	// DataSourceType is the backend family this connector serves.
	DataSourceType() string

	// DisplayName is the human-readable connector name.
	DisplayName() string

	// ConfigFields declares the credentials and configuration a workspace
	// must supply before the connector can be instantiated.
	ConfigFields() api.ConfigFields

	AuthenticationStrategy(rc RuntimeContext) (AuthenticationStrategy, error)
	TaskQuery(rc RuntimeContext) (TaskQuery, error)
	MemberQuery(rc RuntimeContext) (MemberQuery, error)
	TimeEntryQuery(rc RuntimeContext) (TimeEntryQuery, error)
	TaskMutation(rc RuntimeContext) (TaskMutation, error)
	TimeEntryMutation(rc RuntimeContext) (TimeEntryMutation, error)
}
