package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	l.Debug(ctx, "dropped")
	l.Info(ctx, "dropped")
	l.Warn(ctx, "kept")
	l.Error(ctx, "kept")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("levels = %v, %v; want warn, error", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("info", &buf)

	l.Info(context.Background(), "publish finished",
		Field{Key: "outcome", Value: "complete"},
		Field{Key: "files", Value: 12},
	)

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0]["msg"] != "publish finished" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[0]["outcome"] != "complete" {
		t.Errorf("outcome = %v, want complete", entries[0]["outcome"])
	}
	if entries[0]["files"] != float64(12) {
		t.Errorf("files = %v, want 12", entries[0]["files"])
	}
	if _, ok := entries[0]["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("info", &buf)

	l.Info(context.Background(), "auth",
		Field{Key: "token", Value: "s3cret"},
		Field{Key: "user", Value: "jw"},
	)

	entries := decodeEntries(t, &buf)
	if entries[0]["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", entries[0]["token"])
	}
	if entries[0]["user"] != "jw" {
		t.Errorf("user = %v, want jw", entries[0]["user"])
	}
}

func TestLogger_WithOp(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("info", &buf)

	opLogger := l.WithOp(OpMeta{Component: "staging", Name: "publish", Target: `\\filer\renders`})
	opLogger.Info(context.Background(), "starting")

	entries := decodeEntries(t, &buf)
	if entries[0]["op.id"] != "staging.publish" {
		t.Errorf("op.id = %v, want staging.publish", entries[0]["op.id"])
	}
	if entries[0]["op.target"] != `\\filer\renders` {
		t.Errorf("op.target = %v", entries[0]["op.target"])
	}

	// The parent logger is unaffected.
	buf.Reset()
	l.Info(context.Background(), "plain")
	entries = decodeEntries(t, &buf)
	if _, ok := entries[0]["op.id"]; ok {
		t.Error("parent logger picked up operation context")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
