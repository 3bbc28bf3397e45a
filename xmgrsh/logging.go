package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// traceLogger appends timestamped lines to the configured log file so a
// session sent to xmgr can be inspected or replayed afterwards.
type traceLogger struct {
	file *os.File
}

// newTraceLogger opens (or creates) the log file at path.
func newTraceLogger(path string) (*traceLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &traceLogger{file: f}, nil
}

// Close releases the file handle.
func (l *traceLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Printf writes a single timestamped line to the log file.
func (l *traceLogger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line)
}
