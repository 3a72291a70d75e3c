// Package runtime wires the n8n REST client into an MCP server.
//
// Each tool invocation is stateless and independent: the host runtime may
// dispatch them concurrently, and nothing here coordinates between calls.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/n8n-mcp-server/internal/audit"
	"github.com/codex-k8s/n8n-mcp-server/internal/n8n"
	"github.com/codex-k8s/n8n-mcp-server/internal/protocol"
	"github.com/codex-k8s/n8n-mcp-server/internal/security"
)

// Builder constructs an MCP server exposing the n8n tools.
type Builder struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records tool events.
	Audit audit.Logger
	// Client calls the n8n REST API.
	Client *n8n.Client
	// Timeout bounds each tool invocation. Zero disables the bound.
	Timeout time.Duration
	// Name is the MCP server name.
	Name string
	// Version is the MCP server version.
	Version string
}

type listWorkflowsInput struct{}

type workflowInput struct {
	WorkflowID string `json:"workflow_id" jsonschema:"the ID of the workflow"`
}

type executeWorkflowInput struct {
	WorkflowID string `json:"workflow_id" jsonschema:"the ID of the workflow to execute"`
	InputData  string `json:"input_data,omitempty" jsonschema:"optional input data as a JSON string"`
}

type executionInput struct {
	ExecutionID string `json:"execution_id" jsonschema:"the ID of the execution"`
}

// Build creates an MCP server with the six n8n tools registered.
func (b Builder) Build() *mcp.Server {
	name := b.Name
	if name == "" {
		name = "n8n"
	}
	version := b.Version
	if version == "" {
		version = "1.0.0"
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_workflows",
		Description: "List all workflows in n8n. Returns workflow names, IDs, and active status.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, b.listWorkflows)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_workflow",
		Description: "Get detailed information about a specific workflow by ID.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, b.getWorkflow)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "execute_workflow",
		Description: "Execute a workflow by ID. Optionally pass input data as JSON string.",
	}, b.executeWorkflow)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_execution",
		Description: "Get the status and result of a workflow execution by execution ID.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, b.getExecution)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "activate_workflow",
		Description: "Activate (enable) a workflow by ID so it can run automatically.",
		Annotations: &mcp.ToolAnnotations{IdempotentHint: true},
	}, b.activateWorkflow)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "deactivate_workflow",
		Description: "Deactivate (disable) a workflow by ID to stop it from running automatically.",
		Annotations: &mcp.ToolAnnotations{IdempotentHint: true},
	}, b.deactivateWorkflow)

	return server
}

// ListWorkflows handles the list_workflows tool.
func (b Builder) ListWorkflows(ctx context.Context) protocol.ToolResponse {
	return b.run(ctx, "list_workflows", nil, func(ctx context.Context) (json.RawMessage, string, error) {
		body, err := b.Client.ListWorkflows(ctx)
		if err != nil {
			return nil, "", err
		}
		return body, summarizeWorkflowList(body), nil
	})
}

// GetWorkflow handles the get_workflow tool.
func (b Builder) GetWorkflow(ctx context.Context, workflowID string) protocol.ToolResponse {
	args := map[string]any{"workflow_id": workflowID}
	return b.run(ctx, "get_workflow", args, func(ctx context.Context) (json.RawMessage, string, error) {
		body, err := b.Client.GetWorkflow(ctx, workflowID)
		if err != nil {
			return nil, "", err
		}
		return body, summarizeWorkflow(body), nil
	})
}

// ExecuteWorkflow handles the execute_workflow tool. inputData, when not
// empty, must be valid JSON text; it is rejected before any network call
// otherwise.
func (b Builder) ExecuteWorkflow(ctx context.Context, workflowID, inputData string) protocol.ToolResponse {
	args := map[string]any{"workflow_id": workflowID, "input_data": inputData}
	return b.run(ctx, "execute_workflow", args, func(ctx context.Context) (json.RawMessage, string, error) {
		var payload any
		if inputData != "" {
			if err := json.Unmarshal([]byte(inputData), &payload); err != nil {
				return nil, "", n8n.NewInputError("input_data must be valid JSON string")
			}
		}
		body, err := b.Client.ExecuteWorkflow(ctx, workflowID, payload)
		if err != nil {
			return nil, "", err
		}
		return body, summarizeExecutionStart(body), nil
	})
}

// GetExecution handles the get_execution tool.
func (b Builder) GetExecution(ctx context.Context, executionID string) protocol.ToolResponse {
	args := map[string]any{"execution_id": executionID}
	return b.run(ctx, "get_execution", args, func(ctx context.Context) (json.RawMessage, string, error) {
		body, err := b.Client.GetExecution(ctx, executionID)
		if err != nil {
			return nil, "", err
		}
		return body, summarizeExecution(body), nil
	})
}

// SetWorkflowActive handles the activate_workflow and deactivate_workflow
// tools. Whether n8n applies the flag synchronously before responding is an
// external contract; the response is reported as-is without polling.
func (b Builder) SetWorkflowActive(ctx context.Context, workflowID string, active bool) protocol.ToolResponse {
	tool := "activate_workflow"
	verb := "activated"
	if !active {
		tool = "deactivate_workflow"
		verb = "deactivated"
	}
	args := map[string]any{"workflow_id": workflowID}
	return b.run(ctx, tool, args, func(ctx context.Context) (json.RawMessage, string, error) {
		body, err := b.Client.SetWorkflowActive(ctx, workflowID, active)
		if err != nil {
			return nil, "", err
		}
		return body, fmt.Sprintf("Workflow %s %s successfully!", workflowID, verb), nil
	})
}

func (b Builder) listWorkflows(ctx context.Context, _ *mcp.CallToolRequest, _ listWorkflowsInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	return nil, b.ListWorkflows(ctx), nil
}

func (b Builder) getWorkflow(ctx context.Context, _ *mcp.CallToolRequest, input workflowInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	return nil, b.GetWorkflow(ctx, input.WorkflowID), nil
}

func (b Builder) executeWorkflow(ctx context.Context, _ *mcp.CallToolRequest, input executeWorkflowInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	return nil, b.ExecuteWorkflow(ctx, input.WorkflowID, input.InputData), nil
}

func (b Builder) getExecution(ctx context.Context, _ *mcp.CallToolRequest, input executionInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	return nil, b.GetExecution(ctx, input.ExecutionID), nil
}

func (b Builder) activateWorkflow(ctx context.Context, _ *mcp.CallToolRequest, input workflowInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	return nil, b.SetWorkflowActive(ctx, input.WorkflowID, true), nil
}

func (b Builder) deactivateWorkflow(ctx context.Context, _ *mcp.CallToolRequest, input workflowInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	return nil, b.SetWorkflowActive(ctx, input.WorkflowID, false), nil
}

// run executes one tool invocation: it bounds the call, classifies failures
// into the response taxonomy, and records logging and audit events. Failures
// become error-shaped responses, never handler errors, so a bad call cannot
// take down the host process.
func (b Builder) run(ctx context.Context, tool string, args map[string]any, call func(ctx context.Context) (json.RawMessage, string, error)) protocol.ToolResponse {
	correlationID := newCorrelationID()

	if b.Logger != nil {
		b.Logger.Info("tool call", "tool", tool, "correlation_id", correlationID, "args", security.RedactArguments(args))
	}
	if b.Audit != nil {
		b.Audit.Record(ctx, audit.Event{Type: "tool_call", Tool: tool, CorrelationID: correlationID})
	}

	ctxTool := ctx
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctxTool, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	body, summary, err := call(ctxTool)
	if err != nil {
		kind := classifyError(err)
		resp := protocol.Failure(kind, err, correlationID)
		if b.Logger != nil {
			b.Logger.Warn("tool failed", "tool", tool, "correlation_id", correlationID, "error_kind", kind, "error", err)
		}
		if b.Audit != nil {
			b.Audit.Record(ctx, audit.Event{Type: "tool_error", Tool: tool, CorrelationID: correlationID, ErrorKind: kind, Detail: err.Error()})
		}
		return resp
	}

	resp := protocol.Success(summary, prettyJSON(body), correlationID)
	if b.Audit != nil {
		b.Audit.Record(ctx, audit.Event{Type: "tool_ok", Tool: tool, CorrelationID: correlationID, Detail: summary})
	}
	return resp
}

func newCorrelationID() string {
	now := time.Now().UTC().UnixNano()
	return fmt.Sprintf("corr-%d", now)
}
