// Package logging writes cadence's diagnostic log to <data>/logs/cadence.log.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the log file inside the logs directory.
const FileName = "cadence.log"

// ParseLevel parses a log level string into slog.Level. Unknown values fall
// back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Path returns the log file path for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "logs", FileName)
}

// Open returns a logger appending to the data directory's log file and a
// function that closes it. An empty dataDir disables logging.
func Open(dataDir string, level slog.Level) (*slog.Logger, func() error, error) {
	if dataDir == "" {
		return Discard(), func() error { return nil }, nil
	}
	path := Path(dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f.Close, nil
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError+1)
}
