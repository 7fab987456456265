package logger

import (
	"log/slog"
	"os"
)

// Log is the process-wide logger. It starts as slog's default handler so
// packages that log before Setup runs (tests, early boot failures) never
// dereference a nil logger.
var Log = slog.Default()

// Setup configures the global logger for the given environment: JSON at
// info level in production, human-readable text with debug enabled
// everywhere else.
func Setup(env string) {
	var handler slog.Handler

	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// With returns a child logger carrying the given attributes, for components
// that tag every record (worker IDs, request IDs).
func With(args ...any) *slog.Logger {
	return Log.With(args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
