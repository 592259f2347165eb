package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestNewWithOptions(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewWithOptions(Options{Level: tt.level})
			if log == nil {
				t.Error("NewWithOptions() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	log := NewWithOptions(Options{
		Level:    "info",
		Format:   "json",
		FilePath: filepath.Join(t.TempDir(), "app.log"),
	})

	// These should not panic
	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")

	log.Info(ctx, "formatted message: %s %d", "test", 123)
	NewNop().Error(ctx, "dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zapcore.Level
	}{
		{"debug", "debug", zapcore.DebugLevel},
		{"upper case warn", "WARN", zapcore.WarnLevel},
		{"error", "error", zapcore.ErrorLevel},
		{"info", "info", zapcore.InfoLevel},
		{"invalid falls back to info", "bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestFileOutputFiltersLevelAndAddsTraceID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := NewWithOptions(Options{Level: "info", FilePath: path})

	traceID := trace.TraceID{0x01, 0x02, 0x03}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{0x01},
	}))

	log.Debug(ctx, "hidden %s", "debug")
	log.Info(ctx, "visible %s", "info")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden debug") {
		t.Errorf("debug entry written at info level: %s", out)
	}
	if !strings.Contains(out, "visible info") {
		t.Errorf("info entry missing: %s", out)
	}
	if !strings.Contains(out, `"trace_id":"`+traceID.String()+`"`) {
		t.Errorf("trace_id missing: %s", out)
	}
}
