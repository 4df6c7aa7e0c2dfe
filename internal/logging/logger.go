// Package logging provides the developer-diagnostics logger. The TUI owns the
// terminal, so records go to a file rather than stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu       sync.Mutex
	levelVar = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile  *os.File
)

// Init opens path for appending and routes all records there.
// Calling Init again replaces the previous destination.
func Init(path string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f

	SetDebug(debug)
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	logger.Debug("logger initialized", "path", path)
	return nil
}

// InitWriter routes records to w. Used by tests and by one-shot mode when
// verbose output should go to stderr.
func InitWriter(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()

	SetDebug(debug)
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

// SetDebug toggles debug level records
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Logger returns the current logger. It never returns nil.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Close flushes and closes the log file, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}
