package runtime

import (
	"errors"

	"github.com/codex-k8s/n8n-mcp-server/internal/n8n"
	"github.com/codex-k8s/n8n-mcp-server/internal/protocol"
)

// classifyError maps client errors onto the response error kinds.
// Unrecognized errors count as network failures: anything the client did
// not classify came from the transport.
func classifyError(err error) string {
	var (
		inputErr *n8n.InputError
		apiErr   *n8n.APIError
	)
	switch {
	case errors.Is(err, n8n.ErrMissingCredential):
		return protocol.ErrorMissingCredential
	case errors.As(err, &inputErr):
		return protocol.ErrorMalformedInput
	case errors.As(err, &apiErr):
		return protocol.ErrorRemoteError
	default:
		return protocol.ErrorNetworkFailure
	}
}
