// Package logging provides the leveled run log of the converter. Every
// message goes to the terminal; when a log file is configured the same
// lines are mirrored there, so a run leaves an audit trail next to its
// exported slices. Each run is tagged with a unique ID in the file
// header.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes leveled, timestamped messages to stdout/stderr and
// optionally mirrors them into a run log file.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	runID   string
	verbose bool
}

// New creates a Logger. A non-empty logFile is created (with its
// parent directory) and receives a header identifying the run; pass an
// empty path for terminal-only logging. Call Close when done.
func New(logFile string, verbose bool) (*Logger, error) {
	l := &Logger{
		runID:   uuid.NewString(),
		verbose: verbose,
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		header := fmt.Sprintf("=== STEPanizerizer run %s started %s ===\n",
			l.runID, time.Now().Format("15:04:05 on 02.01.2006"))
		_, _ = io.WriteString(f, header)
	}
	return l, nil
}

// RunID returns the unique identifier of this run.
func (l *Logger) RunID() string {
	return l.runID
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	out := os.Stdout
	if level == "ERROR" {
		out = os.Stderr
	}
	msg := ts + " [" + level + "] " + text + "\n"

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(out, msg)
	if l.file != nil {
		_, _ = io.WriteString(l.file, msg)
	}
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", fmt.Sprintf(format, args...))
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level when the logger is verbose; no-op otherwise.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", fmt.Sprintf(format, args...))
}
