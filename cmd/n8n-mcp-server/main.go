package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/n8n-mcp-server/internal/app"
	"github.com/codex-k8s/n8n-mcp-server/internal/audit"
	"github.com/codex-k8s/n8n-mcp-server/internal/config"
	"github.com/codex-k8s/n8n-mcp-server/internal/log"
	"github.com/codex-k8s/n8n-mcp-server/internal/n8n"
	"github.com/codex-k8s/n8n-mcp-server/internal/runtime"
	"github.com/codex-k8s/n8n-mcp-server/internal/startup"
)

const (
	serverName    = "n8n"
	serverVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel)

	client := n8n.NewClient(n8n.Options{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		Timeout:       cfg.RequestTimeout,
		SkipSSLVerify: cfg.SkipSSLVerify,
	})

	builder := runtime.Builder{
		Logger:  logger,
		Audit:   audit.New(logger),
		Client:  client,
		Timeout: cfg.RequestTimeout,
		Name:    serverName,
		Version: serverVersion,
	}
	server := builder.Build()

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	startup.Preflight(baseCtx, client, logger)

	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case "", "stdio":
		if err := server.Run(baseCtx, &mcp.StdioTransport{}); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	case "http":
		if err := runHTTP(baseCtx, cfg, server, logger); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown transport", "transport", cfg.Transport)
		os.Exit(1)
	}
}

func runHTTP(ctx context.Context, cfg config.Config, server *mcp.Server, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})

	application, err := app.New(ctx, cfg.Listen, cfg.Path, handler, logger, cfg.ShutdownTimeout)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}
