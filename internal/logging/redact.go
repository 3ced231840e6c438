package logging

import (
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of any sensitive attribute.
const RedactedValue = "***REDACTED***"

var sensitiveKeyParts = []string{
	"password",
	"secret",
	"token",
	"key",
	"salt",
	"authorization",
}

// RedactAttr is a slog.HandlerOptions.ReplaceAttr hook. Attributes whose key
// mentions a credential are replaced with RedactedValue, whatever their kind.
func RedactAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && (a.Key == slog.MessageKey || a.Key == slog.LevelKey || a.Key == slog.TimeKey) {
		return a
	}
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(k, part) {
			return true
		}
	}
	return false
}
