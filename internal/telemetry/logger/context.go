package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "kv.logger"
	// clientIDKey is the context key for the connection's client ID.
	clientIDKey contextKey = "kv.client_id"
	// runIDKey is the context key for the server run ID.
	runIDKey contextKey = "kv.run_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithClientID adds a connection's client ID to the context.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// ClientIDFromContext extracts the client ID from context.
func ClientIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRunID adds the server run ID to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with the client ID and run ID from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if id := ClientIDFromContext(ctx); id != "" {
		l = l.With("client_id", id)
	}
	if id := RunIDFromContext(ctx); id != "" {
		l = l.With("run_id", id)
	}

	return l
}
