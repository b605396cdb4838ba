package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"msg=\"session cleared\"", "component=authorizer", "status=401"}},
		{"TEXT", []string{"component=authorizer"}},
		{"json", []string{`"msg":"session cleared"`, `"component":"authorizer"`, `"status":401`}},
		{"auto", []string{`"msg":"session cleared"`}}, // a buffer is not a terminal
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(slog.LevelInfo, tt.format, &buf).With("component", "authorizer")
			logger.Warn("session cleared", "status", 401)

			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("expected %s in output, got: %s", w, buf.String())
				}
			}
		})
	}
}

func TestNewLoggerWithWriter_DebugRequestsHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(ParseLevel("info"), "text", &buf)

	logger.Debug("HTTP response", "path", "/today", "status", 200)
	logger.Warn("session cleared", "path", "/today")

	output := buf.String()
	if strings.Contains(output, "HTTP response") {
		t.Errorf("expected request logs to be hidden at info, got: %s", output)
	}
	if !strings.Contains(output, "session cleared") {
		t.Errorf("expected session warning at info, got: %s", output)
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	if got := resolveFormat("auto", &buf); got != "json" {
		t.Errorf("expected json for a writer without a descriptor, got %q", got)
	}
	if got := resolveFormat("JSON", &buf); got != "json" {
		t.Errorf("expected explicit format to be kept, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not enable ERROR")
	}
}
