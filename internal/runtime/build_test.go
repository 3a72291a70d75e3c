package runtime_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/n8n-mcp-server/internal/n8n"
	"github.com/codex-k8s/n8n-mcp-server/internal/protocol"
	"github.com/codex-k8s/n8n-mcp-server/internal/runtime"
)

type fakeN8N struct {
	status   int
	response string

	mu       sync.Mutex
	requests int
	method   string
	path     string
	body     string
}

func (f *fakeN8N) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests++
		f.method = r.Method
		f.path = r.URL.Path
		f.body = string(data)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.response))
	})
}

func (f *fakeN8N) seen() (requests int, method, path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests, f.method, f.path, f.body
}

func newBuilder(t *testing.T, fake *fakeN8N) runtime.Builder {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	return runtime.Builder{
		Client: n8n.NewClient(n8n.Options{
			BaseURL: server.URL,
			APIKey:  "test-key",
		}),
	}
}

// offlineBuilder fails the test if any request reaches the network.
func offlineBuilder(t *testing.T, apiKey string) (runtime.Builder, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	client := n8n.NewClient(n8n.Options{
		BaseURL: "http://localhost:5678",
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
				calls.Add(1)
				t.Errorf("unexpected network call: %s %s", r.Method, r.URL)
				return nil, errors.New("unexpected network call")
			}),
		},
	})
	return runtime.Builder{Client: client}, &calls
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestExecuteWorkflowMalformedInput(t *testing.T) {
	builder, calls := offlineBuilder(t, "test-key")

	resp := builder.ExecuteWorkflow(context.Background(), "3", "not json")

	assert.True(t, resp.IsError())
	assert.Equal(t, protocol.ErrorMalformedInput, resp.Error)
	assert.Contains(t, resp.Summary, "input_data must be valid JSON string")
	assert.Equal(t, int32(0), calls.Load())
}

func TestExecuteWorkflowDispatch(t *testing.T) {
	fake := &fakeN8N{status: http.StatusOK, response: `{"data":{"id":"ex-9","finished":true}}`}
	builder := newBuilder(t, fake)

	resp := builder.ExecuteWorkflow(context.Background(), "3", `{"name":"test"}`)

	require.Equal(t, protocol.StatusSuccess, resp.Status)
	requests, method, path, body := fake.seen()
	assert.Equal(t, 1, requests)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/v1/workflows/3/execute", path)
	assert.JSONEq(t, `{"name":"test"}`, body)
	assert.Contains(t, resp.Summary, "Execution ID: ex-9")
	assert.Contains(t, resp.Summary, "Status: Finished")
	assert.JSONEq(t, `{"data":{"id":"ex-9","finished":true}}`, resp.Result)
	assert.NotEmpty(t, resp.CorrelationID)
}

func TestMissingRequiredIdentifier(t *testing.T) {
	builder, calls := offlineBuilder(t, "test-key")

	for name, resp := range map[string]protocol.ToolResponse{
		"get_workflow":        builder.GetWorkflow(context.Background(), ""),
		"execute_workflow":    builder.ExecuteWorkflow(context.Background(), " ", ""),
		"get_execution":       builder.GetExecution(context.Background(), ""),
		"activate_workflow":   builder.SetWorkflowActive(context.Background(), "", true),
		"deactivate_workflow": builder.SetWorkflowActive(context.Background(), "", false),
	} {
		assert.True(t, resp.IsError(), name)
		assert.Equal(t, protocol.ErrorMalformedInput, resp.Error, name)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestMissingCredential(t *testing.T) {
	builder, calls := offlineBuilder(t, "")

	resp := builder.ListWorkflows(context.Background())

	assert.True(t, resp.IsError())
	assert.Equal(t, protocol.ErrorMissingCredential, resp.Error)
	assert.Contains(t, resp.Summary, "N8N_API_KEY")
	assert.Equal(t, int32(0), calls.Load())
}

func TestConnectionRefusedBecomesNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := server.URL
	server.Close()

	builder := runtime.Builder{
		Client: n8n.NewClient(n8n.Options{BaseURL: addr, APIKey: "test-key"}),
	}

	resp := builder.GetExecution(context.Background(), "12345")

	assert.True(t, resp.IsError())
	assert.Equal(t, protocol.ErrorNetworkFailure, resp.Error)
}

func TestGetWorkflowRemoteError(t *testing.T) {
	fake := &fakeN8N{status: http.StatusNotFound, response: `{"message":"not found"}`}
	builder := newBuilder(t, fake)

	resp := builder.GetWorkflow(context.Background(), "5")

	assert.True(t, resp.IsError())
	assert.Equal(t, protocol.ErrorRemoteError, resp.Error)
	assert.Contains(t, resp.Summary, "HTTP 404")
	_, _, path, _ := fake.seen()
	assert.Equal(t, "/api/v1/workflows/5", path)
}

func TestGetExecutionSuccess(t *testing.T) {
	remote := `{"data":{"id":"12345","finished":true,"mode":"manual","workflowData":{"name":"Daily sync"}}}`
	fake := &fakeN8N{status: http.StatusOK, response: remote}
	builder := newBuilder(t, fake)

	resp := builder.GetExecution(context.Background(), "12345")

	require.Equal(t, protocol.StatusSuccess, resp.Status)
	requests, _, path, _ := fake.seen()
	assert.Equal(t, 1, requests)
	assert.Equal(t, "/api/v1/executions/12345", path)
	assert.JSONEq(t, remote, resp.Result)
	assert.Contains(t, resp.Summary, "Execution ID: 12345")
	assert.Contains(t, resp.Summary, "Workflow: Daily sync")
}

func TestListWorkflowsSummary(t *testing.T) {
	fake := &fakeN8N{
		status:   http.StatusOK,
		response: `{"data":[{"id":"1","name":"First","active":true},{"id":"2","name":"Second","active":false}]}`,
	}
	builder := newBuilder(t, fake)

	resp := builder.ListWorkflows(context.Background())

	require.Equal(t, protocol.StatusSuccess, resp.Status)
	assert.Contains(t, resp.Summary, "Found 2 workflow(s):")
	assert.Contains(t, resp.Summary, "- First (ID: 1) [Active]")
	assert.Contains(t, resp.Summary, "- Second (ID: 2) [Inactive]")
}

func TestActivateWorkflow(t *testing.T) {
	fake := &fakeN8N{status: http.StatusOK, response: `{"data":{"id":"7","active":true}}`}
	builder := newBuilder(t, fake)

	resp := builder.SetWorkflowActive(context.Background(), "7", true)

	require.Equal(t, protocol.StatusSuccess, resp.Status)
	_, method, path, body := fake.seen()
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/api/v1/workflows/7", path)
	assert.JSONEq(t, `{"active":true}`, body)
	assert.Equal(t, "Workflow 7 activated successfully!", resp.Summary)
}
