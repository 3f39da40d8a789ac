package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) should fail")
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(&buf, Options{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept", "asset_id", "abc-123")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("invalid JSON record: %v", err)
	}

	if record["msg"] != "kept" || record["asset_id"] != "abc-123" {
		t.Errorf("record = %v", record)
	}
}

func TestNewTextHasNoColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(&buf, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("registered", "asset_id", "abc-123")

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("text output to a buffer must not contain ANSI escapes: %q", out)
	}
	if !strings.Contains(out, "registered") || !strings.Contains(out, "asset_id=abc-123") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewInvalidOptions(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Options{Format: "xml"}); err == nil {
		t.Error("New() should reject unknown formats")
	}

	if _, err := New(&bytes.Buffer{}, Options{Level: "loud"}); err == nil {
		t.Error("New() should reject unknown levels")
	}
}
