// Package scope materializes workspace-bound connector adapters for a
// single request.
package scope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/internal/secrets"
	"github.com/Gustavohps10/timelapse-sub001/internal/workspaces"
)

// Scope is the request-scoped adapter registry produced by the resolver.
// It lives for one request and is discarded afterwards; nothing here is
// shared between requests, so concurrent requests against different
// workspaces never interfere.
type Scope struct {
	Workspace       *models.Workspace
	Runtime         connector.RuntimeContext
	Auth            connector.AuthenticationStrategy
	Tasks           connector.TaskQuery
	Members         connector.MemberQuery
	TimeEntries     connector.TimeEntryQuery
	TaskWriter      connector.TaskMutation
	TimeEntryWriter connector.TimeEntryMutation
}

// WorkspaceStorage is the slice of workspace persistence the resolver
// needs.
type WorkspaceStorage interface {
	GetByID(ctx context.Context, id string) (*models.Workspace, error)
}

// Resolver binds one workspace's connector and credentials into a scope.
// It must run before any handler needing data-source access; a resolution
// failure aborts the request instead of letting the handler run with a
// partial context.
type Resolver struct {
	workspaces WorkspaceStorage
	secrets    secrets.Store
	registry   *connector.Registry
	logger     *slog.Logger
}

// NewResolver creates a scoped resolver.
func NewResolver(storage WorkspaceStorage, store secrets.Store, registry *connector.Registry, logger *slog.Logger) *Resolver {
	return &Resolver{
		workspaces: storage,
		secrets:    store,
		registry:   registry,
		logger:     logger,
	}
}

// Resolve loads the workspace, decrypts its credentials and invokes every
// connector factory with a RuntimeContext built fresh for this request.
// The context is never memoized by workspace id: credentials can rotate
// between requests.
func (r *Resolver) Resolve(ctx context.Context, workspaceID string) (*Scope, error) {
	workspace, err := r.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, workspaces.ErrWorkspaceNotFound) {
			return nil, apperrors.NotFound("workspace.notFound").WithDetails(map[string]any{"id": workspaceID})
		}
		return nil, apperrors.Internal("workspace.loadFailed").WithCause(err)
	}

	if !workspace.Linked() {
		return nil, apperrors.Validation("workspace.notLinked").WithDetails(map[string]any{"id": workspaceID})
	}

	c, ok := r.registry.Lookup(workspace.DataSourceType)
	if !ok {
		return nil, apperrors.NotFound("connector.notRegistered").WithDetails(map[string]any{
			"dataSourceType": workspace.DataSourceType,
		})
	}

	credentials, err := r.loadCredentials(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	scope := &Scope{
		Workspace: workspace,
		Runtime: connector.RuntimeContext{
			Config:      workspace.PluginConfig,
			Credentials: credentials,
		},
	}
	if err := scope.bind(c); err != nil {
		return nil, apperrors.From(err)
	}

	r.logger.Debug("scope resolved",
		"workspace_id", workspaceID,
		"data_source_type", workspace.DataSourceType)
	return scope, nil
}

// loadCredentials reads and decodes the workspace session credentials.
// Missing or corrupt credentials fail resolution with an unauthorized
// error.
func (r *Resolver) loadCredentials(ctx context.Context, workspaceID string) (map[string]string, error) {
	account := secrets.SessionAccount(workspaceID)
	token, err := r.secrets.GetToken(ctx, secrets.ServiceName, account)
	if err != nil {
		switch {
		case errors.Is(err, secrets.ErrTokenNotFound):
			return nil, apperrors.Unauthorized("workspace.notConnected").WithDetails(map[string]any{"id": workspaceID})
		case errors.Is(err, secrets.ErrTokenCorrupt):
			return nil, apperrors.Unauthorized("workspace.credentialsCorrupt").WithDetails(map[string]any{"id": workspaceID})
		default:
			return nil, apperrors.Internal("workspace.credentialsLoadFailed").WithCause(err)
		}
	}

	var credentials map[string]string
	if err := json.Unmarshal([]byte(token), &credentials); err != nil {
		return nil, apperrors.Unauthorized("workspace.credentialsCorrupt").WithDetails(map[string]any{"id": workspaceID})
	}
	return credentials, nil
}

// bind invokes each connector factory and stores the adapters in the
// scope. Any factory failure aborts the whole resolution.
func (s *Scope) bind(c connector.Connector) error {
	var err error
	if s.Auth, err = c.AuthenticationStrategy(s.Runtime); err != nil {
		return fmt.Errorf("authentication strategy: %w", err)
	}
	if s.Tasks, err = c.TaskQuery(s.Runtime); err != nil {
		return fmt.Errorf("task query: %w", err)
	}
	if s.Members, err = c.MemberQuery(s.Runtime); err != nil {
		return fmt.Errorf("member query: %w", err)
	}
	if s.TimeEntries, err = c.TimeEntryQuery(s.Runtime); err != nil {
		return fmt.Errorf("time entry query: %w", err)
	}
	if s.TaskWriter, err = c.TaskMutation(s.Runtime); err != nil {
		return fmt.Errorf("task mutation: %w", err)
	}
	if s.TimeEntryWriter, err = c.TimeEntryMutation(s.Runtime); err != nil {
		return fmt.Errorf("time entry mutation: %w", err)
	}
	return nil
}
