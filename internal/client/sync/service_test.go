package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavohps10/timelapse-sub001/internal/client/storage"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// fakeAPI implements the subset of ClientAPI the replication driver uses.
type fakeAPI struct {
	pushFunc func(req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error)
	pullFunc func(req api.PullRequest) (*api.PullResponse[api.TimeEntry], error)

	pushCalls []api.PushRequest[api.TimeEntry]
	pullCalls []api.PullRequest
}

func (f *fakeAPI) Push(ctx context.Context, workspaceID, token string, req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error) {
	f.pushCalls = append(f.pushCalls, req)
	if f.pushFunc == nil {
		return req.Entries, nil
	}
	return f.pushFunc(req)
}

func (f *fakeAPI) Pull(ctx context.Context, workspaceID, token string, req api.PullRequest) (*api.PullResponse[api.TimeEntry], error) {
	f.pullCalls = append(f.pullCalls, req)
	if f.pullFunc == nil {
		return &api.PullResponse[api.TimeEntry]{Checkpoint: req.Checkpoint}, nil
	}
	return f.pullFunc(req)
}

func (f *fakeAPI) CreateWorkspace(ctx context.Context, req api.CreateWorkspaceRequest) (*api.WorkspaceDTO, error) {
	panic("not used")
}

func (f *fakeAPI) GetWorkspace(ctx context.Context, id string) (*api.WorkspaceDTO, error) {
	panic("not used")
}

func (f *fakeAPI) ListWorkspaces(ctx context.Context) ([]api.WorkspaceDTO, error) {
	panic("not used")
}

func (f *fakeAPI) ListConnectors(ctx context.Context) ([]api.ConnectorDTO, error) {
	panic("not used")
}

func (f *fakeAPI) Link(ctx context.Context, workspaceID string, req api.LinkRequest) (*api.WorkspaceDTO, error) {
	panic("not used")
}

func (f *fakeAPI) Connect(ctx context.Context, workspaceID string, req api.ConnectRequest) (*api.ConnectResponse, error) {
	panic("not used")
}

func (f *fakeAPI) Disconnect(ctx context.Context, workspaceID string) (*api.WorkspaceDTO, error) {
	panic("not used")
}

func (f *fakeAPI) Unlink(ctx context.Context, workspaceID string) (*api.WorkspaceDTO, error) {
	panic("not used")
}

// fakeStore is an in-memory EntryStorage plus CheckpointStorage.
type fakeStore struct {
	entries     map[string]api.TimeEntry
	pending     map[string]api.SyncDocument[api.TimeEntry]
	checkpoints map[string]api.Checkpoint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:     make(map[string]api.TimeEntry),
		pending:     make(map[string]api.SyncDocument[api.TimeEntry]),
		checkpoints: make(map[string]api.Checkpoint),
	}
}

func (f *fakeStore) UpsertEntry(ctx context.Context, workspaceID string, entry api.TimeEntry) error {
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeStore) GetEntry(ctx context.Context, workspaceID, id string) (*api.TimeEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, storage.ErrEntryNotFound
	}
	return &entry, nil
}

func (f *fakeStore) ListEntries(ctx context.Context, workspaceID string) ([]api.TimeEntry, error) {
	out := make([]api.TimeEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) DeleteEntry(ctx context.Context, workspaceID, id string) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeStore) EnqueuePending(ctx context.Context, workspaceID string, doc api.SyncDocument[api.TimeEntry]) error {
	f.pending[doc.Document.ID] = doc
	return nil
}

func (f *fakeStore) ListPending(ctx context.Context, workspaceID string) ([]api.SyncDocument[api.TimeEntry], error) {
	out := make([]api.SyncDocument[api.TimeEntry], 0, len(f.pending))
	for _, doc := range f.pending {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Document.ID < out[j].Document.ID
	})
	return out, nil
}

func (f *fakeStore) RemovePending(ctx context.Context, workspaceID, id string) error {
	delete(f.pending, id)
	return nil
}

func (f *fakeStore) PendingCount(ctx context.Context, workspaceID string) (int, error) {
	return len(f.pending), nil
}

func (f *fakeStore) SaveCheckpoint(ctx context.Context, workspaceID string, cp api.Checkpoint) error {
	f.checkpoints[workspaceID] = cp
	return nil
}

func (f *fakeStore) GetCheckpoint(ctx context.Context, workspaceID string) (api.Checkpoint, error) {
	return f.checkpoints[workspaceID], nil
}

func (f *fakeStore) DeleteCheckpoint(ctx context.Context, workspaceID string) error {
	delete(f.checkpoints, workspaceID)
	return nil
}

func testSession() *storage.Session {
	return &storage.Session{WorkspaceID: "ws-1", MemberID: "m1", Token: "session-token"}
}

func pendingDoc(id string) api.SyncDocument[api.TimeEntry] {
	return api.SyncDocument[api.TimeEntry]{Document: api.TimeEntry{ID: id, Comments: "local"}}
}

func TestSync_PushesQueuedWrites(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	require.NoError(t, store.EnqueuePending(ctx, "ws-1", pendingDoc("e1")))
	require.NoError(t, store.EnqueuePending(ctx, "ws-1", pendingDoc("e2")))

	now := time.Now().UTC()
	client := &fakeAPI{
		pushFunc: func(req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error) {
			results := make([]api.SyncDocument[api.TimeEntry], len(req.Entries))
			for i, doc := range req.Entries {
				doc.SyncedAt = &now
				results[i] = doc
			}
			return results, nil
		},
	}

	svc := NewService(client, store, store, setupTestLogger())
	result, err := svc.Sync(ctx, testSession())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Pushed)
	assert.Empty(t, store.pending)
	assert.Contains(t, store.entries, "e1")
	assert.Contains(t, store.entries, "e2")
}

func TestSync_PushBatches(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	for i := 0; i < pushBatchSize+10; i++ {
		require.NoError(t, store.EnqueuePending(ctx, "ws-1", pendingDoc(formatID(i))))
	}

	client := &fakeAPI{}
	svc := NewService(client, store, store, setupTestLogger())
	result, err := svc.Sync(ctx, testSession())
	require.NoError(t, err)

	require.Len(t, client.pushCalls, 2)
	assert.Len(t, client.pushCalls[0].Entries, pushBatchSize)
	assert.Len(t, client.pushCalls[1].Entries, 10)
	assert.Equal(t, pushBatchSize+10, result.Pushed)
	assert.Empty(t, store.pending)
}

func TestSync_ConflictAdoptsServerState(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	require.NoError(t, store.EnqueuePending(ctx, "ws-1", pendingDoc("e1")))

	server := api.TimeEntry{ID: "e1", Comments: "server wins"}
	client := &fakeAPI{
		pushFunc: func(req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error) {
			doc := req.Entries[0]
			doc.Conflicted = true
			doc.ConflictData = &api.ConflictData[api.TimeEntry]{Server: &server}
			return []api.SyncDocument[api.TimeEntry]{doc}, nil
		},
	}

	svc := NewService(client, store, store, setupTestLogger())
	result, err := svc.Sync(ctx, testSession())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Conflicts)
	assert.Equal(t, 0, result.Pushed)
	assert.Empty(t, store.pending)
	assert.Equal(t, "server wins", store.entries["e1"].Comments)
}

func TestSync_RejectedWriteIsDropped(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	require.NoError(t, store.EnqueuePending(ctx, "ws-1", pendingDoc("e1")))

	client := &fakeAPI{
		pushFunc: func(req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error) {
			doc := req.Entries[0]
			doc.ValidationError = &api.ErrorInfo{
				Kind:       "validation",
				MessageKey: "timeEntry.taskRequired",
			}
			return []api.SyncDocument[api.TimeEntry]{doc}, nil
		},
	}

	svc := NewService(client, store, store, setupTestLogger())
	result, err := svc.Sync(ctx, testSession())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Rejected)
	assert.Empty(t, store.pending)
	assert.NotContains(t, store.entries, "e1")
}

func TestSync_PullPagesUntilEmpty(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	pages := [][]api.SyncDocument[api.TimeEntry]{
		{
			{Document: api.TimeEntry{ID: "e1", UpdatedAt: base}},
			{Document: api.TimeEntry{ID: "e2", UpdatedAt: base.Add(time.Minute)}},
		},
		{
			{Document: api.TimeEntry{ID: "e3", UpdatedAt: base.Add(2 * time.Minute)}},
		},
		{},
	}

	page := 0
	client := &fakeAPI{
		pullFunc: func(req api.PullRequest) (*api.PullResponse[api.TimeEntry], error) {
			docs := pages[page]
			page++
			cp := req.Checkpoint
			if len(docs) > 0 {
				last := docs[len(docs)-1].Document
				cp = api.Checkpoint{ID: last.ID, UpdatedAt: last.UpdatedAt}
			}
			return &api.PullResponse[api.TimeEntry]{Documents: docs, Checkpoint: cp}, nil
		},
	}

	svc := NewService(client, store, store, setupTestLogger())
	result, err := svc.Sync(ctx, testSession())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pulled)
	assert.Len(t, store.entries, 3)
	assert.Len(t, client.pullCalls, 3)

	// checkpoint advanced to the last applied document
	cp := store.checkpoints["ws-1"]
	assert.Equal(t, "e3", cp.ID)

	// the second page resumed from the first page's checkpoint
	assert.Equal(t, "e2", client.pullCalls[1].Checkpoint.ID)
}

func TestSync_PullAppliesDeletes(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertEntry(ctx, "ws-1", api.TimeEntry{ID: "e1"}))

	now := time.Now().UTC()
	page := 0
	client := &fakeAPI{
		pullFunc: func(req api.PullRequest) (*api.PullResponse[api.TimeEntry], error) {
			page++
			if page > 1 {
				return &api.PullResponse[api.TimeEntry]{Checkpoint: req.Checkpoint}, nil
			}
			return &api.PullResponse[api.TimeEntry]{
				Documents: []api.SyncDocument[api.TimeEntry]{
					{Document: api.TimeEntry{ID: "e1", UpdatedAt: now}, Deleted: true},
				},
				Checkpoint: api.Checkpoint{ID: "e1", UpdatedAt: now},
			}, nil
		},
	}

	svc := NewService(client, store, store, setupTestLogger())
	result, err := svc.Sync(ctx, testSession())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pulled)
	assert.NotContains(t, store.entries, "e1")
}

func TestSync_PushErrorAborts(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	require.NoError(t, store.EnqueuePending(ctx, "ws-1", pendingDoc("e1")))

	client := &fakeAPI{
		pushFunc: func(req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := NewService(client, store, store, setupTestLogger())
	_, err := svc.Sync(ctx, testSession())
	require.Error(t, err)

	// queue is kept for the next round
	assert.Len(t, store.pending, 1)
	assert.Empty(t, client.pullCalls)
}

func TestPendingCount(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	require.NoError(t, store.EnqueuePending(ctx, "ws-1", pendingDoc("e1")))

	svc := NewService(&fakeAPI{}, store, store, setupTestLogger())
	count, err := svc.PendingCount(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func formatID(i int) string {
	return "entry-" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}
