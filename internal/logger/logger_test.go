package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"DEBUG":   DEBUG,
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"ERROR":   ERROR,
		"":        INFO,
		"loud":    INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: INFO, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	l.Debug("hidden")
	l.WithFields(F("route", "/dashboard")).Info("navigated", F("status", 200))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at INFO level")
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "navigated") {
		t.Errorf("missing entry: %q", out)
	}
	if !strings.Contains(out, "route=/dashboard") || !strings.Contains(out, "status=200") {
		t.Errorf("missing fields: %q", out)
	}
}

func TestLoggerRotatesBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "console.log")
	l, err := New(Config{Level: DEBUG, FilePath: path, MaxSize: 64, MaxBackups: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	for i := 0; i < 5; i++ {
		l.Info(strings.Repeat("x", 80))
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("expected rotated file: %v", err)
	}
	if _, err := os.Stat(path + ".3"); err == nil {
		t.Error("more backups kept than MaxBackups")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("nothing")
	if l.WithFields(F("a", 1)) != nil {
		t.Error("WithFields on nil logger should stay nil")
	}
	if err := l.Close(); err != nil {
		t.Error(err)
	}
}
