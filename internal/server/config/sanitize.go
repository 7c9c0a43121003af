package config

import "strings"

// sensitiveKeys are substrings of configuration keys whose values are secrets.
var sensitiveKeys = []string{"pass", "secret", "auth"}

// Sanitize returns a copy of table entries with sensitive values masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if v != "" && isSensitive(k) {
			v = maskSecret(v)
		}
		out[k] = v
	}
	return out
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
