package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"pass",
	"secret",
	"credential",
	"auth",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// MaxArgLen is the longest command argument logged verbatim.
const MaxArgLen = 64

// redactSensitive redacts string attributes whose key suggests a secret.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		return a
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// RedactCommand returns a copy of a command's tokens safe to log.
// The value of CONFIG SET on a sensitive key is redacted and arguments
// longer than MaxArgLen are truncated.
func RedactCommand(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = truncate(tok)
	}

	if len(tokens) >= 4 &&
		strings.EqualFold(tokens[0], "CONFIG") &&
		strings.EqualFold(tokens[1], "SET") &&
		IsSensitiveKey(tokens[2]) {
		for i := 3; i < len(out); i++ {
			out[i] = redactedValue
		}
	}
	return out
}

func truncate(s string) string {
	if len(s) <= MaxArgLen {
		return s
	}
	return s[:MaxArgLen] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}
