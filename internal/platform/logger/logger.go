package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger writing to stdout. The level is
// controlled by DAYWISE_LOG_LEVEL (debug, info, warn, error); info is the
// default.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("DAYWISE_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
