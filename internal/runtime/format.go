package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Summaries mirror what the n8n UI would tell a human about the same
// resource. The raw remote JSON always travels alongside them in the
// response result field.

type workflowSummary struct {
	ID     any    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type workflowDetail struct {
	ID          any                        `json:"id"`
	Name        string                     `json:"name"`
	Active      bool                       `json:"active"`
	Nodes       []json.RawMessage          `json:"nodes"`
	Connections map[string]json.RawMessage `json:"connections"`
	Tags        []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

type executionDetail struct {
	ID           any    `json:"id"`
	Finished     bool   `json:"finished"`
	Mode         string `json:"mode"`
	StoppedAt    string `json:"stoppedAt"`
	WorkflowData struct {
		Name string `json:"name"`
	} `json:"workflowData"`
}

func summarizeWorkflowList(body json.RawMessage) string {
	var workflows []workflowSummary
	if err := json.Unmarshal(unwrapData(body), &workflows); err != nil {
		return "Workflow list retrieved."
	}
	if len(workflows) == 0 {
		return "No workflows found in n8n."
	}

	lines := make([]string, 0, len(workflows)+1)
	lines = append(lines, fmt.Sprintf("Found %d workflow(s):", len(workflows)))
	for _, wf := range workflows {
		state := "Inactive"
		if wf.Active {
			state = "Active"
		}
		lines = append(lines, fmt.Sprintf("- %s (ID: %s) [%s]", nameOrUnnamed(wf.Name), formatID(wf.ID), state))
	}
	return strings.Join(lines, "\n")
}

func summarizeWorkflow(body json.RawMessage) string {
	var wf workflowDetail
	if err := json.Unmarshal(unwrapData(body), &wf); err != nil {
		return "Workflow retrieved."
	}

	state := "Inactive"
	if wf.Active {
		state = "Active"
	}
	lines := []string{
		fmt.Sprintf("Workflow: %s", nameOrUnnamed(wf.Name)),
		fmt.Sprintf("ID: %s", formatID(wf.ID)),
		fmt.Sprintf("Status: %s", state),
		fmt.Sprintf("Nodes: %d", len(wf.Nodes)),
		fmt.Sprintf("Connections: %d", len(wf.Connections)),
	}
	if len(wf.Tags) > 0 {
		names := make([]string, 0, len(wf.Tags))
		for _, tag := range wf.Tags {
			names = append(names, tag.Name)
		}
		lines = append(lines, fmt.Sprintf("Tags: %s", strings.Join(names, ", ")))
	}
	return strings.Join(lines, "\n")
}

func summarizeExecutionStart(body json.RawMessage) string {
	var exec executionDetail
	if err := json.Unmarshal(unwrapData(body), &exec); err != nil {
		return "Workflow executed!"
	}

	status := "Running"
	if exec.Finished {
		status = "Finished"
	}
	id := formatID(exec.ID)
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("Workflow executed!\nExecution ID: %s\nStatus: %s", id, status)
}

func summarizeExecution(body json.RawMessage) string {
	var exec executionDetail
	if err := json.Unmarshal(unwrapData(body), &exec); err != nil {
		return "Execution retrieved."
	}

	status := "Running"
	if exec.Finished {
		status = "Finished"
	}
	workflowName := exec.WorkflowData.Name
	if workflowName == "" {
		workflowName = "Unknown"
	}
	mode := exec.Mode
	if mode == "" {
		mode = "unknown"
	}
	lines := []string{
		fmt.Sprintf("Execution ID: %s", formatID(exec.ID)),
		fmt.Sprintf("Workflow: %s", workflowName),
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Mode: %s", mode),
	}
	if exec.StoppedAt != "" {
		lines = append(lines, fmt.Sprintf("Stopped at: %s", exec.StoppedAt))
	}
	return strings.Join(lines, "\n")
}

// unwrapData strips the {"data": ...} envelope the n8n API wraps most
// responses in. Bodies without the envelope pass through unchanged.
func unwrapData(body json.RawMessage) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return body
}

// prettyJSON indents a JSON body for display. Non-JSON bodies come back
// trimmed but otherwise untouched.
func prettyJSON(body json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return strings.TrimSpace(string(body))
	}
	return buf.String()
}

func formatID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func nameOrUnnamed(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unnamed"
	}
	return name
}
