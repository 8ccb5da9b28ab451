package fileconv

import (
	"log/slog"
	"time"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger used for per-job log lines
// (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTimeout bounds each external tool invocation (default: 2 minutes).
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithWorkers caps the batch worker pool (default: GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithTempDir sets the parent directory for per-job workspaces
// (default: the system temp directory).
func WithTempDir(dir string) Option {
	return func(e *Engine) {
		e.tempDir = dir
	}
}

// WithPandocPath overrides the pandoc binary location.
func WithPandocPath(path string) Option {
	return func(e *Engine) {
		e.pandocPath = path
	}
}

// WithLibreOfficePath overrides the office-suite binary location.
func WithLibreOfficePath(path string) Option {
	return func(e *Engine) {
		e.librePath = path
	}
}
