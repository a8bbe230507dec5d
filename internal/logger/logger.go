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
	loggerKey     contextKey = "logger"
	invocationKey contextKey = "invocation_id"
)

var defaultLogger *slog.Logger

// Options configure the process logger. The CLI writes logs to stderr so that
// stdout stays clean for --json output.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

func Init(level string) {
	InitWithOptions(Options{Level: level})
}

func InitWithOptions(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func Default() *slog.Logger {
	if defaultLogger == nil {
		Init("warn")
	}
	return defaultLogger
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return Default()
}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithInvocationID tags every log line of one CLI run with the same id.
func WithInvocationID(ctx context.Context, id string) context.Context {
	l := FromContext(ctx).With("invocation_id", id)
	ctx = context.WithValue(ctx, invocationKey, id)
	return WithLogger(ctx, l)
}

func InvocationID(ctx context.Context) string {
	if id, ok := ctx.Value(invocationKey).(string); ok {
		return id
	}
	return ""
}
