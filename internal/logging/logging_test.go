// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugDisabled(t *testing.T) {
	DebugEnabled = false
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Debug("this should not appear")

	if buf.Len() > 0 {
		t.Errorf("Debug output when disabled: %s", buf.String())
	}
}

func TestDebugEnabled(t *testing.T) {
	DebugEnabled = true
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Debug("test message %d", 42)

	if !bytes.Contains(buf.Bytes(), []byte("DEBUG: test message 42")) {
		t.Errorf("Expected debug output, got: %s", buf.String())
	}
	DebugEnabled = false
}

func TestSetupTruncatesAndEchoes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ce_configurator.log")
	os.WriteFile(path, []byte("stale line from last run\n"), 0644)

	var echo bytes.Buffer
	closer, err := Setup(path, &echo)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Printf("WARN: File not found, skipping backup: %s", "bot.lua")
	closer.Close()
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if strings.Contains(string(data), "stale line") {
		t.Error("expected log file to be truncated")
	}
	if !strings.Contains(string(data), "skipping backup: bot.lua") {
		t.Errorf("log file missing entry: %q", data)
	}
	if !strings.Contains(echo.String(), "skipping backup: bot.lua") {
		t.Errorf("echo writer missing entry: %q", echo.String())
	}
}

func TestSetupBadPath(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), nil)
	if err == nil {
		t.Error("expected error for unwritable log path")
	}
}
