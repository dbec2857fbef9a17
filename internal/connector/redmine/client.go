// Package redmine implements the Redmine connector. The Redmine wire
// format is private to this package; everything exported speaks the
// connector contract in domain terms.
package redmine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
)

const (
	requestTimeout = 30 * time.Second
	apiKeyHeader   = "X-Redmine-API-Key"
)

// client is the HTTP client for one Redmine instance, bound to the api key
// carried by the request's RuntimeContext.
type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func newClient(baseURL, apiKey string) *client {
	return &client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Keep the api key when Redmine redirects inside the instance
				if len(via) > 0 && via[0].Header.Get(apiKeyHeader) != "" {
					req.Header.Set(apiKeyHeader, via[0].Header.Get(apiKeyHeader))
				}
				return nil
			},
		},
	}
}

// get performs a GET request against path with query params.
func (c *client) get(ctx context.Context, path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

// doRequest performs an HTTP request and decodes the JSON response.
func (c *client) doRequest(ctx context.Context, method, path string, body, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Internal("connector.backendUnreachable").WithCause(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return apperrors.Internal("connector.badResponse").WithCause(err)
	}
	return nil
}

// checkStatus maps backend statuses to the error taxonomy.
func (c *client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperrors.Unauthorized("connector.invalidCredentials")
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound("connector.entityNotFound")
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var payload struct {
			Errors []string `json:"errors"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return apperrors.Validation("connector.backendRejected").WithDetails(map[string]any{
			"errors": payload.Errors,
		})
	default:
		return apperrors.Internal("connector.backendError").WithDetails(map[string]any{
			"status": resp.StatusCode,
		})
	}
}
