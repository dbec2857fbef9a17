// Package api is the HTTP client for the timelapse server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI is the server surface the client commands depend on.
type ClientAPI interface {
	CreateWorkspace(ctx context.Context, req api.CreateWorkspaceRequest) (*api.WorkspaceDTO, error)
	GetWorkspace(ctx context.Context, id string) (*api.WorkspaceDTO, error)
	ListWorkspaces(ctx context.Context) ([]api.WorkspaceDTO, error)
	ListConnectors(ctx context.Context) ([]api.ConnectorDTO, error)
	Link(ctx context.Context, workspaceID string, req api.LinkRequest) (*api.WorkspaceDTO, error)
	Connect(ctx context.Context, workspaceID string, req api.ConnectRequest) (*api.ConnectResponse, error)
	Disconnect(ctx context.Context, workspaceID string) (*api.WorkspaceDTO, error)
	Unlink(ctx context.Context, workspaceID string) (*api.WorkspaceDTO, error)
	Pull(ctx context.Context, workspaceID, token string, req api.PullRequest) (*api.PullResponse[api.TimeEntry], error)
	Push(ctx context.Context, workspaceID, token string, req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error)
}

// ServerError is a non-2xx response decoded into the server's error
// payload.
type ServerError struct {
	Status int
	Info   api.ErrorInfo
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Info.MessageKey)
}

// Client is the HTTP client for the timelapse server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

func (c *Client) CreateWorkspace(ctx context.Context, req api.CreateWorkspaceRequest) (*api.WorkspaceDTO, error) {
	var resp api.WorkspaceDTO
	if err := c.doRequest(ctx, "POST", "/api/v1/workspaces", "", req, &resp); err != nil {
		return nil, fmt.Errorf("create workspace request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) GetWorkspace(ctx context.Context, id string) (*api.WorkspaceDTO, error) {
	var resp api.WorkspaceDTO
	if err := c.doRequest(ctx, "GET", "/api/v1/workspaces/"+id, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("get workspace request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListWorkspaces(ctx context.Context) ([]api.WorkspaceDTO, error) {
	var resp []api.WorkspaceDTO
	if err := c.doRequest(ctx, "GET", "/api/v1/workspaces", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list workspaces request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) ListConnectors(ctx context.Context) ([]api.ConnectorDTO, error) {
	var resp []api.ConnectorDTO
	if err := c.doRequest(ctx, "GET", "/api/v1/connectors", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list connectors request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) Link(ctx context.Context, workspaceID string, req api.LinkRequest) (*api.WorkspaceDTO, error) {
	var resp api.WorkspaceDTO
	path := fmt.Sprintf("/api/v1/workspaces/%s/link", workspaceID)
	if err := c.doRequest(ctx, "POST", path, "", req, &resp); err != nil {
		return nil, fmt.Errorf("link request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) Connect(ctx context.Context, workspaceID string, req api.ConnectRequest) (*api.ConnectResponse, error) {
	var resp api.ConnectResponse
	path := fmt.Sprintf("/api/v1/workspaces/%s/connect", workspaceID)
	if err := c.doRequest(ctx, "POST", path, "", req, &resp); err != nil {
		return nil, fmt.Errorf("connect request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) Disconnect(ctx context.Context, workspaceID string) (*api.WorkspaceDTO, error) {
	var resp api.WorkspaceDTO
	path := fmt.Sprintf("/api/v1/workspaces/%s/disconnect", workspaceID)
	if err := c.doRequest(ctx, "POST", path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("disconnect request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) Unlink(ctx context.Context, workspaceID string) (*api.WorkspaceDTO, error) {
	var resp api.WorkspaceDTO
	path := fmt.Sprintf("/api/v1/workspaces/%s/unlink", workspaceID)
	if err := c.doRequest(ctx, "POST", path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("unlink request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) Pull(ctx context.Context, workspaceID, token string, req api.PullRequest) (*api.PullResponse[api.TimeEntry], error) {
	var resp api.PullResponse[api.TimeEntry]
	path := fmt.Sprintf("/api/v1/workspaces/%s/sync/pull", workspaceID)
	if err := c.doRequest(ctx, "POST", path, token, req, &resp); err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) Push(ctx context.Context, workspaceID, token string, req api.PushRequest[api.TimeEntry]) ([]api.SyncDocument[api.TimeEntry], error) {
	var resp []api.SyncDocument[api.TimeEntry]
	path := fmt.Sprintf("/api/v1/workspaces/%s/sync/push", workspaceID)
	if err := c.doRequest(ctx, "POST", path, token, req, &resp); err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var info api.ErrorInfo
		if err := json.Unmarshal(respBody, &info); err == nil && info.MessageKey != "" {
			return &ServerError{Status: resp.StatusCode, Info: info}
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
