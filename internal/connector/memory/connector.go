package memory

import (
	"context"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// DataSourceType is the data-source type the memory connector registers
// under.
const DataSourceType = "memory"

const credentialAPIKey = "apiKey"

// Connector is the in-memory connector. It is stateless: the backend
// state lives in the Store, the per-tenant credentials arrive through the
// RuntimeContext at factory-call time.
type Connector struct {
	id          string
	displayName string
	store       *Store
}

// New creates a memory connector backed by store.
func New(id, displayName string, store *Store) *Connector {
	return &Connector{
		id:          id,
		displayName: displayName,
		store:       store,
	}
}

// ID implements connector.Connector.
func (c *Connector) ID() string { return c.id }

// DataSourceType implements connector.Connector.
func (c *Connector) DataSourceType() string { return DataSourceType }

// DisplayName implements connector.Connector.
func (c *Connector) DisplayName() string { return c.displayName }

// ConfigFields implements connector.Connector.
func (c *Connector) ConfigFields() api.ConfigFields {
	return api.ConfigFields{
		Credentials: []api.FieldGroup{
			{
				ID:    "session",
				Label: "Session",
				Fields: []api.ConfigField{
					{
						ID:       credentialAPIKey,
						Label:    "API key",
						Type:     api.FieldTypePassword,
						Required: true,
					},
				},
			},
		},
		Configuration: nil,
	}
}

// AuthenticationStrategy implements connector.Connector.
func (c *Connector) AuthenticationStrategy(rc connector.RuntimeContext) (connector.AuthenticationStrategy, error) {
	return &authStrategy{store: c.store, apiKey: rc.Credentials[credentialAPIKey]}, nil
}

// TaskQuery implements connector.Connector.
func (c *Connector) TaskQuery(rc connector.RuntimeContext) (connector.TaskQuery, error) {
	return &taskQuery{store: c.store}, nil
}

// MemberQuery implements connector.Connector.
func (c *Connector) MemberQuery(rc connector.RuntimeContext) (connector.MemberQuery, error) {
	return &memberQuery{store: c.store, apiKey: rc.Credentials[credentialAPIKey]}, nil
}

// TimeEntryQuery implements connector.Connector.
func (c *Connector) TimeEntryQuery(rc connector.RuntimeContext) (connector.TimeEntryQuery, error) {
	return &timeEntryQuery{store: c.store}, nil
}

// TaskMutation implements connector.Connector.
func (c *Connector) TaskMutation(rc connector.RuntimeContext) (connector.TaskMutation, error) {
	return &taskMutation{store: c.store}, nil
}

// TimeEntryMutation implements connector.Connector.
func (c *Connector) TimeEntryMutation(rc connector.RuntimeContext) (connector.TimeEntryMutation, error) {
	return &timeEntryMutation{store: c.store}, nil
}

type authStrategy struct {
	store  *Store
	apiKey string
}

func (a *authStrategy) Authenticate(ctx context.Context) (*connector.Session, error) {
	member, ok := a.store.memberByKey(a.apiKey)
	if !ok {
		return nil, apperrors.Unauthorized("connector.invalidCredentials")
	}
	return &connector.Session{MemberID: member.ID, MemberName: member.Name}, nil
}
