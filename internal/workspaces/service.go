// Package workspaces implements the workspace lifecycle: create, link,
// connect, disconnect and unlink, the state transitions that control which
// connector a tenant uses.
package workspaces

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/internal/secrets"
	"github.com/Gustavohps10/timelapse-sub001/internal/validation"
)

// Service drives workspace lifecycle transitions:
// Unlinked -> Linked -> Connected -> Linked/Unlinked.
type Service struct {
	storage  Storage
	registry *connector.Registry
	secrets  secrets.Store
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a workspace service.
func NewService(storage Storage, registry *connector.Registry, store secrets.Store, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		registry: registry,
		secrets:  store,
		logger:   logger,
		now:      time.Now,
	}
}

// Create makes a new unlinked workspace.
func (s *Service) Create(ctx context.Context, name string) (*models.Workspace, error) {
	if err := validation.ValidateWorkspaceName(name); err != nil {
		return nil, apperrors.Validation("workspace.invalidName").WithCause(err)
	}

	workspace := models.NewWorkspace(name)
	if err := s.storage.Create(ctx, workspace); err != nil {
		return nil, apperrors.Internal("workspace.createFailed").WithCause(err)
	}

	s.logger.Info("workspace created", "workspace_id", workspace.ID, "name", name)
	return workspace, nil
}

// GetByID returns a workspace.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	workspace, err := s.storage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkspaceNotFound) {
			return nil, apperrors.NotFound("workspace.notFound").WithDetails(map[string]any{"id": id})
		}
		return nil, apperrors.Internal("workspace.loadFailed").WithCause(err)
	}
	return workspace, nil
}

// List returns all workspaces.
func (s *Service) List(ctx context.Context) ([]*models.Workspace, error) {
	list, err := s.storage.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("workspace.listFailed").WithCause(err)
	}
	return list, nil
}

// LinkDataSource binds a registered connector to the workspace
// (Unlinked -> Linked) and clears any stale config from a previous
// binding. Linking does not open a session; Connect does.
func (s *Service) LinkDataSource(ctx context.Context, workspaceID, connectorID string) (*models.Workspace, error) {
	workspace, err := s.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	c, ok := s.registry.LookupByID(connectorID)
	if !ok {
		return nil, apperrors.NotFound("connector.notRegistered").WithDetails(map[string]any{"connectorId": connectorID})
	}

	workspace.Link(c.ID(), c.DataSourceType())
	workspace.UpdatedAt = s.now()
	if err := s.storage.Update(ctx, workspace); err != nil {
		return nil, apperrors.Internal("workspace.updateFailed").WithCause(err)
	}

	s.logger.Info("data source linked",
		"workspace_id", workspaceID,
		"connector_id", connectorID,
		"data_source_type", c.DataSourceType())
	return workspace, nil
}

// ConnectDataSource opens a session against the linked connector
// (Linked -> Connected). The credentials are validated through the
// connector's authentication strategy with a freshly built RuntimeContext;
// only on success are they persisted to the secret store. A partial write
// left behind by a failed attempt is rolled back.
func (s *Service) ConnectDataSource(ctx context.Context, workspaceID string, credentials, config map[string]string) (*models.Workspace, *connector.Session, error) {
	workspace, err := s.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}
	if !workspace.Linked() {
		return nil, nil, apperrors.Validation("workspace.notLinked").WithDetails(map[string]any{"id": workspaceID})
	}

	c, ok := s.registry.Lookup(workspace.DataSourceType)
	if !ok {
		return nil, nil, apperrors.NotFound("connector.notRegistered").WithDetails(map[string]any{
			"dataSourceType": workspace.DataSourceType,
		})
	}

	if err := connector.ValidateInput(c.ConfigFields(), credentials, config); err != nil {
		return nil, nil, err
	}

	rc := connector.RuntimeContext{Config: config, Credentials: credentials}
	strategy, err := c.AuthenticationStrategy(rc)
	if err != nil {
		return nil, nil, err
	}

	// Nothing has been written at this point, so a rejected credential
	// simply never reaches the secret store.
	session, err := strategy.Authenticate(ctx)
	if err != nil {
		return nil, nil, apperrors.From(err)
	}

	token, err := json.Marshal(credentials)
	if err != nil {
		return nil, nil, apperrors.Internal("workspace.credentialsEncodeFailed").WithCause(err)
	}
	account := secrets.SessionAccount(workspaceID)
	if err := s.secrets.ReplaceToken(ctx, secrets.ServiceName, account, string(token)); err != nil {
		s.rollbackCredentials(ctx, workspaceID)
		return nil, nil, apperrors.Internal("workspace.credentialsSaveFailed").WithCause(err)
	}

	workspace.PluginConfig = config
	workspace.UpdatedAt = s.now()
	if err := s.storage.Update(ctx, workspace); err != nil {
		s.rollbackCredentials(ctx, workspaceID)
		return nil, nil, apperrors.Internal("workspace.updateFailed").WithCause(err)
	}

	s.logger.Info("data source connected",
		"workspace_id", workspaceID,
		"member_id", session.MemberID)
	return workspace, session, nil
}

// DisconnectDataSource closes the session (Connected -> Linked) by
// deleting the stored credentials. The connector stays linked.
func (s *Service) DisconnectDataSource(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	workspace, err := s.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	account := secrets.SessionAccount(workspaceID)
	if err := s.secrets.DeleteToken(ctx, secrets.ServiceName, account); err != nil && !errors.Is(err, secrets.ErrTokenNotFound) {
		return nil, apperrors.Internal("workspace.credentialsDeleteFailed").WithCause(err)
	}

	workspace.UpdatedAt = s.now()
	if err := s.storage.Update(ctx, workspace); err != nil {
		return nil, apperrors.Internal("workspace.updateFailed").WithCause(err)
	}

	s.logger.Info("data source disconnected", "workspace_id", workspaceID)
	return workspace, nil
}

// UnlinkDataSource returns the workspace to the local-only state from any
// state, deleting stored credentials along the way.
func (s *Service) UnlinkDataSource(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	workspace, err := s.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	account := secrets.SessionAccount(workspaceID)
	if err := s.secrets.DeleteToken(ctx, secrets.ServiceName, account); err != nil && !errors.Is(err, secrets.ErrTokenNotFound) {
		return nil, apperrors.Internal("workspace.credentialsDeleteFailed").WithCause(err)
	}

	workspace.Unlink()
	workspace.UpdatedAt = s.now()
	if err := s.storage.Update(ctx, workspace); err != nil {
		return nil, apperrors.Internal("workspace.updateFailed").WithCause(err)
	}

	s.logger.Info("data source unlinked", "workspace_id", workspaceID)
	return workspace, nil
}

// Connected reports whether a session is stored for the workspace.
func (s *Service) Connected(ctx context.Context, workspaceID string) (bool, error) {
	account := secrets.SessionAccount(workspaceID)
	has, err := s.secrets.HasToken(ctx, secrets.ServiceName, account)
	if err != nil {
		return false, apperrors.Internal("workspace.credentialsCheckFailed").WithCause(err)
	}
	return has, nil
}

// rollbackCredentials deletes whatever a failed connect attempt may have
// written; a missing token is fine.
func (s *Service) rollbackCredentials(ctx context.Context, workspaceID string) {
	account := secrets.SessionAccount(workspaceID)
	if err := s.secrets.DeleteToken(ctx, secrets.ServiceName, account); err != nil && !errors.Is(err, secrets.ErrTokenNotFound) {
		s.logger.Warn("failed to roll back credentials", "workspace_id", workspaceID, "error", err)
	}
}
