package runtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeWorkflowListEmpty(t *testing.T) {
	summary := summarizeWorkflowList(json.RawMessage(`{"data":[]}`))
	assert.Equal(t, "No workflows found in n8n.", summary)
}

func TestSummarizeWorkflowListUnwrapped(t *testing.T) {
	// Some n8n versions return the array without the data envelope.
	summary := summarizeWorkflowList(json.RawMessage(`[{"id":3,"name":"Sync","active":true}]`))
	assert.Contains(t, summary, "Found 1 workflow(s):")
	assert.Contains(t, summary, "- Sync (ID: 3) [Active]")
}

func TestSummarizeWorkflowDetail(t *testing.T) {
	body := json.RawMessage(`{"data":{
		"id":"42","name":"Invoices","active":false,
		"nodes":[{},{},{}],
		"connections":{"a":{},"b":{}},
		"tags":[{"name":"billing"},{"name":"daily"}]
	}}`)

	summary := summarizeWorkflow(body)
	assert.Contains(t, summary, "Workflow: Invoices")
	assert.Contains(t, summary, "ID: 42")
	assert.Contains(t, summary, "Status: Inactive")
	assert.Contains(t, summary, "Nodes: 3")
	assert.Contains(t, summary, "Connections: 2")
	assert.Contains(t, summary, "Tags: billing, daily")
}

func TestSummarizeWorkflowUnnamed(t *testing.T) {
	summary := summarizeWorkflow(json.RawMessage(`{"data":{"id":"1"}}`))
	assert.Contains(t, summary, "Workflow: Unnamed")
}

func TestSummarizeExecutionStart(t *testing.T) {
	summary := summarizeExecutionStart(json.RawMessage(`{"data":{"id":"ex-1","finished":false}}`))
	assert.Equal(t, "Workflow executed!\nExecution ID: ex-1\nStatus: Running", summary)
}

func TestSummarizeExecutionStoppedAt(t *testing.T) {
	body := json.RawMessage(`{"data":{
		"id":"12345","finished":true,"mode":"trigger",
		"stoppedAt":"2026-01-02T03:04:05Z",
		"workflowData":{"name":"Sync"}
	}}`)

	summary := summarizeExecution(body)
	assert.Contains(t, summary, "Execution ID: 12345")
	assert.Contains(t, summary, "Workflow: Sync")
	assert.Contains(t, summary, "Status: Finished")
	assert.Contains(t, summary, "Mode: trigger")
	assert.Contains(t, summary, "Stopped at: 2026-01-02T03:04:05Z")
}

func TestPrettyJSON(t *testing.T) {
	pretty := prettyJSON(json.RawMessage(`{"a":1}`))
	assert.Equal(t, "{\n  \"a\": 1\n}", pretty)

	// Non-JSON bodies pass through trimmed.
	assert.Equal(t, "plain text", prettyJSON(json.RawMessage("  plain text\n")))
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "abc", formatID("abc"))
	assert.Equal(t, "3", formatID(float64(3)))
	assert.Equal(t, "", formatID(nil))
}
