// Package logger provides structured logging for kv.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler setup, Redis log levels
//   - context.go: Context-aware logging with client and run IDs
//   - redact.go: Sensitive data redaction
//
// Levels accept both Redis names (debug, verbose, notice, warning) and
// slog names (debug, info, warn, error). The level can be changed at
// runtime with SetLevel, which CONFIG SET loglevel uses.
package logger
