package protocol

// Tool execution statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error kinds carried by error-shaped responses.
const (
	ErrorMissingCredential = "missing_credential"
	ErrorMalformedInput    = "malformed_input"
	ErrorNetworkFailure    = "network_failure"
	ErrorRemoteError       = "remote_error"
)

// ToolResponse is the fixed JSON response returned to MCP clients.
type ToolResponse struct {
	// Status indicates the execution status.
	Status string `json:"status"`
	// Error names the failure kind when Status is "error".
	Error string `json:"error,omitempty"`
	// Summary is a human-readable description of the outcome.
	Summary string `json:"summary,omitempty"`
	// Result carries the remote response as pretty-printed JSON text.
	Result string `json:"result,omitempty"`
	// CorrelationID links related requests.
	CorrelationID string `json:"correlation_id"`
}

// Success builds a success response.
func Success(summary, result, correlationID string) ToolResponse {
	return ToolResponse{
		Status:        StatusSuccess,
		Summary:       summary,
		Result:        result,
		CorrelationID: correlationID,
	}
}

// Failure builds an error response of the given kind.
func Failure(kind string, err error, correlationID string) ToolResponse {
	summary := ""
	if err != nil {
		summary = err.Error()
	}
	return ToolResponse{
		Status:        StatusError,
		Error:         kind,
		Summary:       summary,
		CorrelationID: correlationID,
	}
}

// IsError reports whether the response describes a failure.
func (r ToolResponse) IsError() bool {
	return r.Status == StatusError
}
