package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("request completed", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if entry["msg"] != "request completed" {
		t.Errorf("Expected msg field, got %v", entry["msg"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("Expected status 200, got %v", entry["status"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("Info entry leaked through warn-level filter")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("Warn entry missing")
	}
}

func TestNew_RuntimeLevelChange(t *testing.T) {
	var buf bytes.Buffer
	logger, levelVar, err := New(Config{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("dropped before")
	levelVar.Set(slog.LevelDebug)
	logger.Debug("visible after")

	out := buf.String()
	if strings.Contains(out, "dropped before") {
		t.Error("Debug entry leaked before level change")
	}
	if !strings.Contains(out, "visible after") {
		t.Error("Debug entry missing after level change")
	}
}

func TestNew_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Warn("auth rejected", "api_key", "supersecretcredential")

	out := buf.String()
	if strings.Contains(out, "supersecretcredential") {
		t.Error("Raw credential leaked into log output")
	}
	if !strings.Contains(out, "supe...") {
		t.Errorf("Expected redacted prefix in output, got %s", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestRedactValue(t *testing.T) {
	if got := RedactValue("abcdef"); got != "abcd..." {
		t.Errorf("Expected abcd..., got %s", got)
	}
	if got := RedactValue("ab"); got != "***" {
		t.Errorf("Expected ***, got %s", got)
	}
}
