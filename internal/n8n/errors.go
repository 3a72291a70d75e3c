package n8n

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredential is returned before any network call when no API key
// is configured.
var ErrMissingCredential = errors.New("N8N_API_KEY is not configured, set the environment variable N8N_API_KEY")

// InputError reports an invalid tool argument detected before dispatch.
type InputError struct {
	// Msg describes the invalid argument.
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// NewInputError builds an InputError with the given message.
func NewInputError(format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// APIError reports a non-2xx response from the n8n API.
type APIError struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int
	// Body is the upstream response body, trimmed.
	Body string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// NetworkError wraps a transport-level failure (connection refused, DNS,
// timeout). Never retried here; the caller may re-invoke.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
