// Package n8n implements a thin client for the n8n REST API.
//
// The client owns no workflow state: every method performs exactly one HTTP
// request and returns the raw JSON response. Workflow execution semantics,
// activation side effects, and execution status transitions all live inside
// the remote n8n instance.
package n8n

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiPrefix = "/api/v1"

	// apiKeyHeader carries the n8n API key credential.
	apiKeyHeader = "X-N8N-API-KEY"

	maxResponseBytes = 1 << 20
)

// Client calls the n8n REST API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Options configures a Client.
type Options struct {
	// BaseURL is the n8n instance base URL, without the /api/v1 prefix.
	BaseURL string
	// APIKey authenticates requests. Empty means every call fails with
	// ErrMissingCredential before touching the network.
	APIKey string
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
	// SkipSSLVerify disables TLS certificate verification.
	SkipSSLVerify bool
	// HTTPClient overrides the constructed client when set. Timeout and
	// SkipSSLVerify are ignored in that case.
	HTTPClient *http.Client
}

// NewClient builds a Client from Options.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:5678"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
		if opts.SkipSSLVerify {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  opts.APIKey,
		client:  httpClient,
	}
}

// ListWorkflows returns all workflows known to the n8n instance.
func (c *Client) ListWorkflows(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/workflows", nil)
}

// GetWorkflow returns the workflow with the given ID.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (json.RawMessage, error) {
	id, err := requireID("workflow_id", workflowID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, "/workflows/"+url.PathEscape(id), nil)
}

// ExecuteWorkflow triggers one run of the workflow with the given ID.
// input is sent as the request body; nil sends an empty JSON object.
func (c *Client) ExecuteWorkflow(ctx context.Context, workflowID string, input any) (json.RawMessage, error) {
	id, err := requireID("workflow_id", workflowID)
	if err != nil {
		return nil, err
	}
	if input == nil {
		input = map[string]any{}
	}
	return c.do(ctx, http.MethodPost, "/workflows/"+url.PathEscape(id)+"/execute", input)
}

// GetExecution returns the execution record with the given ID.
func (c *Client) GetExecution(ctx context.Context, executionID string) (json.RawMessage, error) {
	id, err := requireID("execution_id", executionID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, "/executions/"+url.PathEscape(id), nil)
}

// SetWorkflowActive flips the active flag of the workflow with the given ID.
// Activation side effects happen inside n8n; this call does not poll for
// confirmation afterward.
func (c *Client) SetWorkflowActive(ctx context.Context, workflowID string, active bool) (json.RawMessage, error) {
	id, err := requireID("workflow_id", workflowID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPatch, "/workflows/"+url.PathEscape(id), map[string]any{"active": active})
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrMissingCredential
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, NewInputError("failed to encode request body: %v", err)
		}
		body = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	request.Header.Set(apiKeyHeader, c.apiKey)
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(request)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return json.RawMessage(data), nil
}

func requireID(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", NewInputError("%s is required", name)
	}
	return trimmed, nil
}
