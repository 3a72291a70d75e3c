package startup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/codex-k8s/n8n-mcp-server/internal/n8n"
)

const preflightTimeout = 5 * time.Second

// Preflight probes the n8n instance once at startup and logs the outcome.
// It never fails the process: a missing key or unreachable instance only
// produces a warning, and tool calls report their own errors later.
func Preflight(ctx context.Context, client *n8n.Client, logger *slog.Logger) {
	if client == nil || logger == nil {
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	_, err := client.ListWorkflows(probeCtx)
	switch {
	case err == nil:
		logger.Info("n8n instance reachable")
	case errors.Is(err, n8n.ErrMissingCredential):
		logger.Warn("N8N_API_KEY is not set, tool calls will fail until it is configured")
	default:
		logger.Warn("n8n instance not reachable at startup", "error", err)
	}
}
