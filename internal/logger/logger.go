// Package logger configures the process-wide slog default used by the
// pipeline.
package logger

import (
	"log/slog"
	"os"
)

// Init installs a text handler on stdout as the slog default. DEBUG=true
// lowers the level to debug.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
