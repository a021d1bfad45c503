// Package logger provides structured logging for the route planner.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	// RequestIDKey carries the request id assigned by the devserver middleware.
	RequestIDKey contextKey = "request_id"
	// RouteIDKey carries the route a mutation is scoped to.
	RouteIDKey contextKey = "route_id"
)

// Logger wraps slog.Logger for structured logging.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stdout. Development gets a debug-level
// text handler, everything else JSON at info.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext returns a logger enriched with request_id and route_id from ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	out := l
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		out = &Logger{Logger: out.With(slog.String("request_id", id))}
	}
	if id, ok := ctx.Value(RouteIDKey).(string); ok && id != "" {
		out = &Logger{Logger: out.With(slog.String("route_id", id))}
	}
	return out
}

// WithRoute returns a logger tagged with a route id.
func (l *Logger) WithRoute(routeID string) *Logger {
	return &Logger{Logger: l.With(slog.String("route_id", routeID))}
}

// HTTPRequest logs a served HTTP request.
func (l *Logger) HTTPRequest(method, path string, status, bytes int, latencyMs int64) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Int("bytes", bytes),
		slog.Int64("dur_ms", latencyMs),
	)
}

// CacheError logs a failed cache read or write. Cache errors never fail a lookup.
func (l *Logger) CacheError(operation string, err error) {
	l.Warn("cache_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
