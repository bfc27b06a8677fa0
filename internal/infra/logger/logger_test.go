package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"triage-ai/internal/infra/config"
)

func TestNewTextLogger(t *testing.T) {
	log, closer, err := New(config.LoggerConfig{Level: "info", Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer()
	if log == nil {
		t.Fatal("logger should not be nil")
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.log")
	log, closer, err := New(config.LoggerConfig{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("ticket created", "number", 1)
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "ticket created") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	// Should not panic or write anywhere visible.
	log.Error("dropped", "key", "value")
}
