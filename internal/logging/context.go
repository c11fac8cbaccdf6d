package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	pathKey
)

// FromContext returns the logger attached to ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithLogger attaches logger to ctx. A nil ctx starts from Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// WithPath scopes the context logger to one source file. Every record
// written through FromContext afterwards carries FieldPath.
func WithPath(ctx context.Context, path string) context.Context {
	if current, ok := PathFromContext(ctx); ok && current == path {
		return ctx
	}
	ctx = WithLogger(ctx, FromContext(ctx).With(FieldPath, path))
	return context.WithValue(ctx, pathKey, path)
}

// PathFromContext reports the file a context was scoped to by WithPath.
func PathFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	path, ok := ctx.Value(pathKey).(string)
	return path, ok
}
