package api

import "time"

// WorkspaceDTO is the workspace surface returned by every workspace
// endpoint. PluginID and PluginConfig are empty while the workspace is
// unlinked (DataSourceType "local").
type WorkspaceDTO struct {
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	PluginConfig   map[string]string `json:"pluginConfig,omitempty"`
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	DataSourceType string            `json:"dataSourceType"`
	PluginID       string            `json:"pluginId,omitempty"`
}

// CreateWorkspaceRequest creates a new unlinked workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// LinkRequest binds a registered connector to a workspace.
type LinkRequest struct {
	ConnectorID string `json:"connectorId"`
}

// ConnectRequest opens a session against the linked connector. Credentials
// and Configuration must satisfy the connector's declared config fields.
type ConnectRequest struct {
	Credentials   map[string]string `json:"credentials"`
	Configuration map[string]string `json:"configuration,omitempty"`
}

// ConnectResponse returns the updated workspace plus a session token the
// client presents on subsequent sync calls.
type ConnectResponse struct {
	Workspace    WorkspaceDTO `json:"workspace"`
	SessionToken string       `json:"sessionToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

// ConnectorDTO describes a registered connector and the config fields a
// workspace must supply before it can be connected.
type ConnectorDTO struct {
	ID             string       `json:"id"`
	DataSourceType string       `json:"dataSourceType"`
	DisplayName    string       `json:"displayName"`
	ConfigFields   ConfigFields `json:"configFields"`
}

// ConfigFields groups the credential and configuration inputs a connector
// declares. Pure metadata: consumed by configuration UI and validation,
// never by business logic.
type ConfigFields struct {
	Credentials   []FieldGroup `json:"credentials"`
	Configuration []FieldGroup `json:"configuration"`
}

// FieldGroup is a labelled group of related config fields.
type FieldGroup struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Description string        `json:"description,omitempty"`
	Fields      []ConfigField `json:"fields"`
}

// ConfigField describes a single typed input.
type ConfigField struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"` // "text", "password" or "url"
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
}

// Config field types.
const (
	FieldTypeText     = "text"
	FieldTypePassword = "password"
	FieldTypeURL      = "url"
)
