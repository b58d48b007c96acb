package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtDebug bool
	}{
		{"info filters debug", "info", false},
		{"debug passes debug", "debug", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			hasDebug := strings.Contains(buf.String(), "debug message")
			if hasDebug != tt.logAtDebug {
				t.Errorf("debug message visible = %v, want %v (buf: %q)", hasDebug, tt.logAtDebug, buf.String())
			}

			buf.Reset()
			logger.Info("info message")
			if !strings.Contains(buf.String(), "info message") {
				t.Errorf("info message not visible (buf: %q)", buf.String())
			}
		})
	}
}

func TestNewActivityLogger_InfoLevel(t *testing.T) {
	dir := t.TempDir()
	al := NewActivityLogger(dir, "info")

	// At info level, activity logger should be nil
	if al != nil {
		t.Error("expected nil ActivityLogger at info level")
	}

	// Nil logger should still be safe to use
	al.Log(map[string]any{"event": "test"})
	al.Close()

	path := filepath.Join(dir, "activity.jsonl")
	if _, err := os.Stat(path); err == nil {
		t.Error("activity.jsonl should not exist at info level")
	}
}

func TestActivityLogger_DebugLevel(t *testing.T) {
	dir := t.TempDir()
	al := NewActivityLogger(dir, "debug")
	if al == nil {
		t.Fatal("expected ActivityLogger at debug level")
	}
	defer al.Close()

	al.Log(map[string]any{"event": "learn", "patterns": 2})
	al.Log(map[string]any{"event": "feedback", "classification": "positive"})

	data, err := os.ReadFile(filepath.Join(dir, "activity.jsonl"))
	if err != nil {
		t.Fatalf("failed to read activity log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if first["event"] != "learn" {
		t.Errorf("expected event 'learn', got %v", first["event"])
	}
	if _, ok := first["time"]; !ok {
		t.Error("expected automatic 'time' field")
	}
}

func TestActivityLogger_DoesNotMutateCaller(t *testing.T) {
	dir := t.TempDir()
	al := NewActivityLogger(dir, "debug")
	if al == nil {
		t.Fatal("expected ActivityLogger at debug level")
	}
	defer al.Close()

	event := map[string]any{"event": "learn"}
	al.Log(event)

	if _, ok := event["time"]; ok {
		t.Error("Log mutated the caller's map")
	}
}

func TestActivityLogger_CloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	al := NewActivityLogger(dir, "debug")
	if al == nil {
		t.Fatal("expected ActivityLogger at debug level")
	}

	al.Close()
	al.Close()
	al.Log(map[string]any{"event": "after close"}) // no-op, must not panic
}
