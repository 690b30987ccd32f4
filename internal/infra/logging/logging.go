package logging

import (
	"io"
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to use JSON output at the given level.
func SetupJSON(level slog.Level) {
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)
}

// SetupText sets slog's default logger to human-readable output on w at the
// given level. The batch CLI logs to stderr so stdout stays clean for the
// CSV report.
func SetupText(w io.Writer, level slog.Level) {
	logger := slog.New(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)
}
