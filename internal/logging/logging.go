// Package logging builds the application logger. The terminal belongs to the
// TUI, so output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New builds a logrus logger writing to path. An empty path discards output.
// The returned close func releases the log file.
func New(level, path string) (*logrus.Logger, func() error, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	if path == "" {
		logger.SetOutput(io.Discard)
		return logger, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything, for tests and commands
// that print to stdout.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
