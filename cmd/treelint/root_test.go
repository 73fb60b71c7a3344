package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treelint.log")
	logFileFlag = path
	logLevelFlag = "debug"
	t.Cleanup(func() {
		logFileFlag = ""
		logLevelFlag = ""
	})

	logger := newLogger()
	logger.Debug("linting started", "files", 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[debug]") || !strings.Contains(out, "files=3") {
		t.Errorf("log file content = %q", out)
	}
}

func TestNewLogger_BadLogFileFallsBack(t *testing.T) {
	logFileFlag = filepath.Join(t.TempDir(), "missing-dir", "treelint.log")
	t.Cleanup(func() { logFileFlag = "" })

	logger := newLogger()
	if logger == nil {
		t.Fatal("an unopenable log file must fall back to stderr, not drop the logger")
	}
	logger.Warn("still logging")
}
