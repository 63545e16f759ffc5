// Package logx initialises the process-wide slog logger.
package logx

import (
	"log/slog"
	"os"
)

// Init installs a JSON handler on stderr as the default logger. Call once at
// the top of main, before anything logs.
func Init(service string) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler).With("service", service))
}
