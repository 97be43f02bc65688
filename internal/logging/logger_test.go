package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"auxl/internal/config"
	"auxl/internal/logging"
	"auxl/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("file message", logging.String("k", "v"))

	content, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "file message") || !strings.Contains(string(content), "k=v") {
		t.Fatalf("unexpected log content %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json message", logging.String(logging.FieldEventType, "format_check"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &line); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if line["msg"] != "json message" || line["level"] != "warn" || line[logging.FieldEventType] != "format_check" {
		t.Fatalf("unexpected json line %v", line)
	}
	if _, ok := line["ts"]; !ok {
		t.Fatalf("expected ts key in %v", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAction(ctx, "open")
	ctx = services.WithSessionPath(ctx, "/data/r.auxl")
	ctx = services.WithRequestID(ctx, "req-xyz")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for key, want := range map[string]string{
		logging.FieldAction:        "open",
		logging.FieldSessionPath:   "/data/r.auxl",
		logging.FieldCorrelationID: "req-xyz",
	} {
		if line[key] != want {
			t.Fatalf("field %s = %v, want %q", key, line[key], want)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "slow write", "session_save_slow", logging.String(logging.FieldImpact, "none"))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if line[logging.FieldEventType] != "session_save_slow" {
		t.Fatalf("missing event type: %v", line)
	}
	if line[logging.FieldErrorHint] == nil {
		t.Fatalf("missing default error hint: %v", line)
	}
	if line[logging.FieldImpact] != "none" {
		t.Fatalf("impact overwritten: %v", line)
	}
}

func TestComponentLoggerOnNilIsNoop(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "workspace")
	logger.Info("dropped")
}

func TestProgressGroupsCounters(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("session saved", logging.Progress(1, 3, 33.33), logging.Bool("complete", false))

	var line struct {
		Progress struct {
			Reviewed   int     `json:"reviewed"`
			Total      int     `json:"total"`
			Percentage float64 `json:"percentage"`
		} `json:"progress"`
		Complete *bool `json:"complete"`
	}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if line.Progress.Reviewed != 1 || line.Progress.Total != 3 || line.Progress.Percentage != 33.33 {
		t.Fatalf("unexpected progress group %+v", line.Progress)
	}
	if line.Complete == nil || *line.Complete {
		t.Fatalf("complete flag = %v", line.Complete)
	}
}

func TestErrorWithContextKeepsExplicitHint(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.ErrorWithContext(logger, "save failed", "session_save_failed",
		logging.Error(nil),
		logging.String(logging.FieldErrorHint, "check permissions"),
	)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if line[logging.FieldErrorHint] != "check permissions" || line["error"] != "<nil>" {
		t.Fatalf("unexpected line %v", line)
	}
	if line[logging.FieldEventType] != "session_save_failed" {
		t.Fatalf("missing event type: %v", line)
	}
}
