package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the server.
type Config struct {
	// BaseURL is the n8n instance base URL.
	BaseURL string `env:"N8N_BASE_URL" envDefault:"http://localhost:5678"`
	// APIKey authenticates requests against the n8n REST API.
	// An empty key surfaces on the first tool call, not at startup.
	APIKey string `env:"N8N_API_KEY"`
	// SkipSSLVerify disables TLS certificate verification.
	SkipSSLVerify bool `env:"N8N_SKIP_SSL_VERIFY" envDefault:"false"`
	// Transport selects the MCP transport ("stdio" or "http").
	Transport string `env:"N8N_MCP_TRANSPORT" envDefault:"stdio"`
	// Listen is the HTTP listen address for the http transport.
	Listen string `env:"N8N_MCP_LISTEN" envDefault:":8080"`
	// Path is the MCP HTTP endpoint path.
	Path string `env:"N8N_MCP_PATH" envDefault:"/mcp"`
	// LogLevel sets the logger level.
	LogLevel string `env:"N8N_MCP_LOG_LEVEL" envDefault:"info"`
	// RequestTimeout bounds each outbound n8n API call.
	RequestTimeout time.Duration `env:"N8N_MCP_REQUEST_TIMEOUT" envDefault:"30s"`
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"N8N_MCP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return cfg, nil
}
