package security

import "strings"

var sensitiveSubstrings = []string{
	"token",
	"password",
	"authorization",
	"apikey",
	"api_key",
	"access_key",
	"private_key",
	"credentials",
	"credential",
	"auth",
	"passwd",
	"secret",
	"signature",
	"cookie",
	"session",
	"jwt",
	"bearer",
	"pwd",
	"passphrase",
}

// RedactArguments returns a copy of arguments with sensitive values replaced.
// Workflow input payloads routinely carry credentials for downstream nodes,
// so values under suspicious keys never reach the logs.
func RedactArguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if isSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		redacted[key] = value
	}
	return redacted
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
