// Package logging provides leveled logging and activity tracing for memlearn.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - An ActivityLogger for structured JSONL learning traces (.memlearn/activity.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ActivityLogger writes structured learning events (extractions, feedback
// applications, promotions) to a JSONL file. It is safe for concurrent use.
// A nil ActivityLogger is safe to use; all methods are no-ops on nil receiver.
type ActivityLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewActivityLogger creates an activity logger writing to dir/activity.jsonl.
// At "info" level (the default), returns nil — no file is created.
// At "debug" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewActivityLogger(dir string, level string) *ActivityLogger {
	if ParseLevel(level) != slog.LevelDebug {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "activity.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &ActivityLogger{file: f}
}

// Log writes an activity event as a single JSONL line.
// A "time" field is added automatically. The caller's map is not mutated.
// Safe to call on nil receiver.
func (al *ActivityLogger) Log(event map[string]any) {
	if al == nil || al.file == nil {
		return
	}

	// Copy to avoid mutating caller's map
	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	al.mu.Lock()
	defer al.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = al.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (al *ActivityLogger) Close() {
	if al == nil || al.file == nil {
		return
	}

	al.mu.Lock()
	defer al.mu.Unlock()

	al.file.Close()
	al.file = nil
}
