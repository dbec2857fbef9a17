package scope

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector/memory"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/internal/secrets"
	"github.com/Gustavohps10/timelapse-sub001/internal/workspaces"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeWorkspaceStorage struct {
	byID map[string]*models.Workspace
}

func (f *fakeWorkspaceStorage) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, workspaces.ErrWorkspaceNotFound
	}
	return w.Clone(), nil
}

type fakeSecretStore struct {
	mu     sync.RWMutex
	tokens map[string]string
	errs   map[string]error
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{tokens: make(map[string]string), errs: make(map[string]error)}
}

func (f *fakeSecretStore) key(service, account string) string { return service + "/" + account }

func (f *fakeSecretStore) SaveToken(ctx context.Context, service, account, token string) error {
	return f.ReplaceToken(ctx, service, account, token)
}

func (f *fakeSecretStore) GetToken(ctx context.Context, service, account string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err, ok := f.errs[f.key(service, account)]; ok {
		return "", err
	}
	token, ok := f.tokens[f.key(service, account)]
	if !ok {
		return "", secrets.ErrTokenNotFound
	}
	return token, nil
}

func (f *fakeSecretStore) DeleteToken(ctx context.Context, service, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[f.key(service, account)]; !ok {
		return secrets.ErrTokenNotFound
	}
	delete(f.tokens, f.key(service, account))
	return nil
}

func (f *fakeSecretStore) HasToken(ctx context.Context, service, account string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.tokens[f.key(service, account)]
	return ok, nil
}

func (f *fakeSecretStore) ReplaceToken(ctx context.Context, service, account, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[f.key(service, account)] = token
	return nil
}

func storeCredentials(t *testing.T, store *fakeSecretStore, workspaceID string, creds map[string]string) {
	t.Helper()
	data, err := json.Marshal(creds)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceToken(context.Background(), secrets.ServiceName, secrets.SessionAccount(workspaceID), string(data)))
}

func linkedWorkspace(id string) *models.Workspace {
	w := models.NewWorkspace("ws-" + id)
	w.ID = id
	w.Link("memory-plugin", memory.DataSourceType)
	return w
}

func setupResolver(t *testing.T) (*Resolver, *fakeWorkspaceStorage, *fakeSecretStore, *memory.Store) {
	t.Helper()

	backend := memory.NewStore()
	backend.SeedMember(models.Member{ID: "m1", Name: "Alice"}, "key-alice")

	registry := connector.NewRegistry()
	require.NoError(t, registry.Register(memory.New("memory-plugin", "In-Memory", backend)))

	wsStorage := &fakeWorkspaceStorage{byID: make(map[string]*models.Workspace)}
	secretStore := newFakeSecretStore()

	return NewResolver(wsStorage, secretStore, registry, setupTestLogger()), wsStorage, secretStore, backend
}

func TestResolver_Resolve_Success(t *testing.T) {
	resolver, wsStorage, secretStore, _ := setupResolver(t)
	wsStorage.byID["w1"] = linkedWorkspace("w1")
	storeCredentials(t, secretStore, "w1", map[string]string{"apiKey": "key-alice"})

	scope, err := resolver.Resolve(context.Background(), "w1")
	require.NoError(t, err)

	assert.Equal(t, "w1", scope.Workspace.ID)
	assert.Equal(t, "key-alice", scope.Runtime.Credentials["apiKey"])
	require.NotNil(t, scope.Auth)
	require.NotNil(t, scope.Tasks)
	require.NotNil(t, scope.Members)
	require.NotNil(t, scope.TimeEntries)
	require.NotNil(t, scope.TaskWriter)
	require.NotNil(t, scope.TimeEntryWriter)

	session, err := scope.Auth.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m1", session.MemberID)
}

func TestResolver_Resolve_WorkspaceNotFound(t *testing.T) {
	resolver, _, _, _ := setupResolver(t)

	_, err := resolver.Resolve(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolver_Resolve_NotLinked(t *testing.T) {
	resolver, wsStorage, _, _ := setupResolver(t)
	wsStorage.byID["w1"] = models.NewWorkspace("unlinked")
	wsStorage.byID["w1"].ID = "w1"

	_, err := resolver.Resolve(context.Background(), "w1")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(t, "workspace.notLinked", apperrors.From(err).MessageKey)
}

func TestResolver_Resolve_NotConnected(t *testing.T) {
	resolver, wsStorage, _, _ := setupResolver(t)
	wsStorage.byID["w1"] = linkedWorkspace("w1")

	_, err := resolver.Resolve(context.Background(), "w1")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	assert.Equal(t, "workspace.notConnected", apperrors.From(err).MessageKey)
}

func TestResolver_Resolve_CorruptCredentials(t *testing.T) {
	resolver, wsStorage, secretStore, _ := setupResolver(t)
	wsStorage.byID["w1"] = linkedWorkspace("w1")

	tests := []struct {
		name  string
		setup func()
	}{
		{
			name: "undecryptable token",
			setup: func() {
				secretStore.errs[secretStore.key(secrets.ServiceName, secrets.SessionAccount("w1"))] = secrets.ErrTokenCorrupt
			},
		},
		{
			name: "unparsable payload",
			setup: func() {
				delete(secretStore.errs, secretStore.key(secrets.ServiceName, secrets.SessionAccount("w1")))
				require.NoError(t, secretStore.ReplaceToken(context.Background(), secrets.ServiceName, secrets.SessionAccount("w1"), "not-json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			_, err := resolver.Resolve(context.Background(), "w1")
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
			assert.Equal(t, "workspace.credentialsCorrupt", apperrors.From(err).MessageKey)
		})
	}
}

func TestResolver_Resolve_UnregisteredConnector(t *testing.T) {
	resolver, wsStorage, secretStore, _ := setupResolver(t)
	w := models.NewWorkspace("other")
	w.ID = "w1"
	w.Link("jira-plugin", "jira")
	wsStorage.byID["w1"] = w
	storeCredentials(t, secretStore, "w1", map[string]string{"apiKey": "key-alice"})

	_, err := resolver.Resolve(context.Background(), "w1")
	require.Error(t, err)
	assert.Equal(t, "connector.notRegistered", apperrors.From(err).MessageKey)
}

// Concurrent resolutions for different workspaces must each see their own
// credentials; nothing may leak between scopes.
func TestResolver_Resolve_ConcurrentIsolation(t *testing.T) {
	resolver, wsStorage, secretStore, backend := setupResolver(t)

	const n = 8
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("w%d", i)
		key := fmt.Sprintf("key-%d", i)
		backend.SeedMember(models.Member{ID: "member-" + id, Name: id}, key)
		wsStorage.byID[id] = linkedWorkspace(id)
		storeCredentials(t, secretStore, id, map[string]string{"apiKey": key})
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("w%d", i)

			scope, err := resolver.Resolve(context.Background(), id)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, fmt.Sprintf("key-%d", i), scope.Runtime.Credentials["apiKey"])

			session, err := scope.Auth.Authenticate(context.Background())
			if assert.NoError(t, err) {
				assert.Equal(t, "member-"+id, session.MemberID)
			}
		}(i)
	}
	wg.Wait()
}
