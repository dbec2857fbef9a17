package workspaces

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector/memory"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/internal/secrets"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type memStorage struct {
	byID map[string]*models.Workspace
}

func newMemStorage() *memStorage {
	return &memStorage{byID: make(map[string]*models.Workspace)}
}

func (m *memStorage) Create(ctx context.Context, w *models.Workspace) error {
	if _, ok := m.byID[w.ID]; ok {
		return ErrWorkspaceExists
	}
	m.byID[w.ID] = w.Clone()
	return nil
}

func (m *memStorage) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	w, ok := m.byID[id]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return w.Clone(), nil
}

func (m *memStorage) List(ctx context.Context) ([]*models.Workspace, error) {
	out := make([]*models.Workspace, 0, len(m.byID))
	for _, w := range m.byID {
		out = append(out, w.Clone())
	}
	return out, nil
}

func (m *memStorage) Update(ctx context.Context, w *models.Workspace) error {
	if _, ok := m.byID[w.ID]; !ok {
		return ErrWorkspaceNotFound
	}
	m.byID[w.ID] = w.Clone()
	return nil
}

type memSecrets struct {
	tokens     map[string]string
	replaceErr error
}

func newMemSecrets() *memSecrets {
	return &memSecrets{tokens: make(map[string]string)}
}

func (m *memSecrets) SaveToken(ctx context.Context, service, account, token string) error {
	return m.ReplaceToken(ctx, service, account, token)
}

func (m *memSecrets) GetToken(ctx context.Context, service, account string) (string, error) {
	token, ok := m.tokens[service+"/"+account]
	if !ok {
		return "", secrets.ErrTokenNotFound
	}
	return token, nil
}

func (m *memSecrets) DeleteToken(ctx context.Context, service, account string) error {
	if _, ok := m.tokens[service+"/"+account]; !ok {
		return secrets.ErrTokenNotFound
	}
	delete(m.tokens, service+"/"+account)
	return nil
}

func (m *memSecrets) HasToken(ctx context.Context, service, account string) (bool, error) {
	_, ok := m.tokens[service+"/"+account]
	return ok, nil
}

func (m *memSecrets) ReplaceToken(ctx context.Context, service, account, token string) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.tokens[service+"/"+account] = token
	return nil
}

func setupService(t *testing.T) (*Service, *memStorage, *memSecrets) {
	t.Helper()

	backend := memory.NewStore()
	backend.SeedMember(models.Member{ID: "m1", Name: "Alice"}, "key-alice")

	registry := connector.NewRegistry()
	require.NoError(t, registry.Register(memory.New("memory-plugin", "In-Memory", backend)))

	storage := newMemStorage()
	secretStore := newMemSecrets()

	return NewService(storage, registry, secretStore, setupTestLogger()), storage, secretStore
}

func TestService_Create(t *testing.T) {
	service, _, _ := setupService(t)

	workspace, err := service.Create(context.Background(), "Personal")
	require.NoError(t, err)
	assert.NotEmpty(t, workspace.ID)
	assert.Equal(t, models.DataSourceLocal, workspace.DataSourceType)
	assert.False(t, workspace.Linked())
}

func TestService_Create_InvalidName(t *testing.T) {
	service, _, _ := setupService(t)

	tests := []string{"", "ab", string(make([]byte, 100))}
	for _, name := range tests {
		_, err := service.Create(context.Background(), name)
		require.Error(t, err, "name %q", name)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	service, _, _ := setupService(t)

	_, err := service.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestService_LinkDataSource(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)

	linked, err := service.LinkDataSource(ctx, workspace.ID, "memory-plugin")
	require.NoError(t, err)
	assert.True(t, linked.Linked())
	assert.Equal(t, "memory-plugin", linked.PluginID)
	assert.Equal(t, memory.DataSourceType, linked.DataSourceType)
}

func TestService_LinkDataSource_UnknownConnector(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)

	_, err = service.LinkDataSource(ctx, workspace.ID, "jira-plugin")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestService_ConnectDataSource(t *testing.T) {
	service, _, secretStore := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)
	_, err = service.LinkDataSource(ctx, workspace.ID, "memory-plugin")
	require.NoError(t, err)

	connected, session, err := service.ConnectDataSource(ctx, workspace.ID,
		map[string]string{"apiKey": "key-alice"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "m1", session.MemberID)

	// Credentials land in the secret store under the session account.
	token, err := secretStore.GetToken(ctx, secrets.ServiceName, secrets.SessionAccount(workspace.ID))
	require.NoError(t, err)
	var creds map[string]string
	require.NoError(t, json.Unmarshal([]byte(token), &creds))
	assert.Equal(t, "key-alice", creds["apiKey"])

	ok, err := service.Connected(ctx, connected.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_ConnectDataSource_NotLinked(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)

	_, _, err = service.ConnectDataSource(ctx, workspace.ID, map[string]string{"apiKey": "key-alice"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestService_ConnectDataSource_MissingCredentials(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)
	_, err = service.LinkDataSource(ctx, workspace.ID, "memory-plugin")
	require.NoError(t, err)

	_, _, err = service.ConnectDataSource(ctx, workspace.ID, nil, nil)
	require.Error(t, err)
	appErr := apperrors.From(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, "connector.missingCredentials", appErr.MessageKey)
}

// Rejected credentials must never reach the secret store.
func TestService_ConnectDataSource_AuthFailureStoresNothing(t *testing.T) {
	service, _, secretStore := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)
	_, err = service.LinkDataSource(ctx, workspace.ID, "memory-plugin")
	require.NoError(t, err)

	_, _, err = service.ConnectDataSource(ctx, workspace.ID, map[string]string{"apiKey": "wrong"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	ok, err := service.Connected(ctx, workspace.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, secretStore.tokens)
}

func TestService_DisconnectKeepsLink(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)
	_, err = service.LinkDataSource(ctx, workspace.ID, "memory-plugin")
	require.NoError(t, err)
	_, _, err = service.ConnectDataSource(ctx, workspace.ID, map[string]string{"apiKey": "key-alice"}, nil)
	require.NoError(t, err)

	disconnected, err := service.DisconnectDataSource(ctx, workspace.ID)
	require.NoError(t, err)
	assert.True(t, disconnected.Linked(), "disconnect keeps the connector linked")

	ok, err := service.Connected(ctx, workspace.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Disconnecting twice is harmless.
	_, err = service.DisconnectDataSource(ctx, workspace.ID)
	require.NoError(t, err)
}

func TestService_UnlinkClearsEverything(t *testing.T) {
	service, storage, _ := setupService(t)
	ctx := context.Background()

	workspace, err := service.Create(ctx, "Personal")
	require.NoError(t, err)
	_, err = service.LinkDataSource(ctx, workspace.ID, "memory-plugin")
	require.NoError(t, err)
	_, _, err = service.ConnectDataSource(ctx, workspace.ID,
		map[string]string{"apiKey": "key-alice"}, map[string]string{"region": "eu"})
	require.NoError(t, err)

	unlinked, err := service.UnlinkDataSource(ctx, workspace.ID)
	require.NoError(t, err)
	assert.False(t, unlinked.Linked())
	assert.Empty(t, unlinked.PluginID)
	assert.Nil(t, unlinked.PluginConfig)

	stored, err := storage.GetByID(ctx, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceLocal, stored.DataSourceType)

	ok, err := service.Connected(ctx, workspace.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
