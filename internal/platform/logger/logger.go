package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. JSON output keeps log aggregation happy;
// level can be raised via LOG_LEVEL when debugging.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
