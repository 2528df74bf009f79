package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"supermarket-dashboard/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "info", Format: "json"})
	logger.Debug("hidden")
	logger.Info("visible", "k", "v")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "visible" || entry["k"] != "v" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["service"] != "supermarket-dashboard" {
		t.Errorf("expected service attribute, got %v", entry["service"])
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %q, want abc", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty ctx = %q", got)
	}
}

func TestStartSpan_JoinsParentTrace(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "GET /")
	_, child := StartSpan(ctx, "trend")

	if child.TraceID != parent.TraceID {
		t.Errorf("child trace %q, want %q", child.TraceID, parent.TraceID)
	}
	if child.ParentID != parent.SpanID {
		t.Errorf("child parent %q, want %q", child.ParentID, parent.SpanID)
	}
	if len(parent.SpanID) != 32 {
		t.Errorf("span id %q should be 32 hex chars", parent.SpanID)
	}
}

func TestSpan_EndLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "debug", Format: "json"})

	_, span := StartSpan(context.Background(), "heatmap")
	span.SetTag("rows", "42")
	span.SetError(errors.New("boom"))
	span.End(logger)

	if span.Status != SpanStatusError {
		t.Errorf("status = %s, want ERROR", span.Status)
	}
	out := buf.String()
	for _, want := range []string{`"operation":"heatmap"`, `"rows":"42"`, `"error":"boom"`} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("log output %q missing %s", out, want)
		}
	}
}
