package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

func TestClient_CreateWorkspace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/workspaces", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.CreateWorkspaceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Personal", req.Name)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.WorkspaceDTO{ID: "ws-1", Name: req.Name})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	workspace, err := client.CreateWorkspace(context.Background(), api.CreateWorkspaceRequest{Name: "Personal"})
	require.NoError(t, err)
	assert.Equal(t, "ws-1", workspace.ID)
	assert.Equal(t, "Personal", workspace.Name)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(api.ErrorInfo{
			Kind:       "validation",
			MessageKey: "workspace.nameRequired",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateWorkspace(context.Background(), api.CreateWorkspaceRequest{})
	require.Error(t, err)

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusUnprocessableEntity, serverErr.Status)
	assert.Equal(t, "validation", serverErr.Info.Kind)
	assert.Equal(t, "workspace.nameRequired", serverErr.Info.MessageKey)
}

func TestClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListWorkspaces(context.Background())
	require.Error(t, err)

	var serverErr *ServerError
	assert.False(t, errors.As(err, &serverErr))
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Pull_SendsBearerToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/workspaces/ws-1/sync/pull", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))

		var req api.PullRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 100, req.BatchSize)

		_ = json.NewEncoder(w).Encode(api.PullResponse[api.TimeEntry]{
			Documents: []api.SyncDocument[api.TimeEntry]{
				{Document: api.TimeEntry{ID: "e1", UpdatedAt: now}},
			},
			Checkpoint: api.Checkpoint{ID: "e1", UpdatedAt: now},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Pull(context.Background(), "ws-1", "session-token", api.PullRequest{BatchSize: 100})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "e1", resp.Checkpoint.ID)
}

func TestClient_Push(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/workspaces/ws-1/sync/push", r.URL.Path)

		var req api.PushRequest[api.TimeEntry]
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Entries, 1)

		results := req.Entries
		results[0].SyncedAt = &now
		_ = json.NewEncoder(w).Encode(results)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.Push(context.Background(), "ws-1", "session-token", api.PushRequest[api.TimeEntry]{
		Entries: []api.SyncDocument[api.TimeEntry]{{Document: api.TimeEntry{ID: "e1"}}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].SyncedAt)
	assert.True(t, results[0].SyncedAt.Equal(now))
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.ListConnectors(ctx)
	require.Error(t, err)
}
