package redmine

import (
	"context"
	"strings"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// DataSourceType is the data-source type the Redmine connector registers
// under.
const DataSourceType = "redmine"

const (
	configBaseURL    = "baseUrl"
	credentialAPIKey = "apiKey"
)

// Connector binds the sync protocol to a Redmine instance. Stateless: the
// instance URL and api key arrive through the RuntimeContext on every
// factory call.
type Connector struct{}

// New creates the Redmine connector.
func New() *Connector {
	return &Connector{}
}

// ID implements connector.Connector.
func (c *Connector) ID() string { return "redmine" }

// DataSourceType implements connector.Connector.
func (c *Connector) DataSourceType() string { return DataSourceType }

// DisplayName implements connector.Connector.
func (c *Connector) DisplayName() string { return "Redmine" }

// ConfigFields implements connector.Connector.
func (c *Connector) ConfigFields() api.ConfigFields {
	return api.ConfigFields{
		Credentials: []api.FieldGroup{
			{
				ID:          "session",
				Label:       "API access",
				Description: "Personal API key from the Redmine account page",
				Fields: []api.ConfigField{
					{
						ID:          credentialAPIKey,
						Label:       "API key",
						Type:        api.FieldTypePassword,
						Required:    true,
						Placeholder: "0123456789abcdef",
					},
				},
			},
		},
		Configuration: []api.FieldGroup{
			{
				ID:    "instance",
				Label: "Instance",
				Fields: []api.ConfigField{
					{
						ID:          configBaseURL,
						Label:       "Redmine URL",
						Type:        api.FieldTypeURL,
						Required:    true,
						Placeholder: "https://redmine.example.com",
					},
				},
			},
		},
	}
}

// clientFor builds the HTTP client for one request's runtime context.
func (c *Connector) clientFor(rc connector.RuntimeContext) (*client, error) {
	baseURL := strings.TrimRight(rc.Config[configBaseURL], "/")
	if baseURL == "" {
		return nil, apperrors.Validation("connector.missingConfiguration").WithDetails(map[string]any{
			"fields": []string{configBaseURL},
		})
	}
	apiKey := rc.Credentials[credentialAPIKey]
	if apiKey == "" {
		return nil, apperrors.Unauthorized("connector.missingCredentials")
	}
	return newClient(baseURL, apiKey), nil
}

// AuthenticationStrategy implements connector.Connector.
func (c *Connector) AuthenticationStrategy(rc connector.RuntimeContext) (connector.AuthenticationStrategy, error) {
	cl, err := c.clientFor(rc)
	if err != nil {
		return nil, err
	}
	return &authStrategy{client: cl}, nil
}

// TaskQuery implements connector.Connector.
func (c *Connector) TaskQuery(rc connector.RuntimeContext) (connector.TaskQuery, error) {
	cl, err := c.clientFor(rc)
	if err != nil {
		return nil, err
	}
	return &taskQuery{client: cl}, nil
}

// MemberQuery implements connector.Connector.
func (c *Connector) MemberQuery(rc connector.RuntimeContext) (connector.MemberQuery, error) {
	cl, err := c.clientFor(rc)
	if err != nil {
		return nil, err
	}
	return &memberQuery{client: cl}, nil
}

// TimeEntryQuery implements connector.Connector.
func (c *Connector) TimeEntryQuery(rc connector.RuntimeContext) (connector.TimeEntryQuery, error) {
	cl, err := c.clientFor(rc)
	if err != nil {
		return nil, err
	}
	return &timeEntryQuery{client: cl}, nil
}

// TaskMutation implements connector.Connector.
func (c *Connector) TaskMutation(rc connector.RuntimeContext) (connector.TaskMutation, error) {
	cl, err := c.clientFor(rc)
	if err != nil {
		return nil, err
	}
	return &taskMutation{client: cl}, nil
}

// TimeEntryMutation implements connector.Connector.
func (c *Connector) TimeEntryMutation(rc connector.RuntimeContext) (connector.TimeEntryMutation, error) {
	cl, err := c.clientFor(rc)
	if err != nil {
		return nil, err
	}
	return &timeEntryMutation{client: cl}, nil
}

type authStrategy struct {
	client *client
}

// Authenticate checks the api key by loading the account it belongs to.
func (a *authStrategy) Authenticate(ctx context.Context) (*connector.Session, error) {
	var resp userResponse
	if err := a.client.get(ctx, "/users/current.json", nil, &resp); err != nil {
		return nil, err
	}
	member := resp.User.toMember()
	return &connector.Session{MemberID: member.ID, MemberName: member.Name}, nil
}
