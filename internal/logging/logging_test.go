package logging

import (
	"bytes"
	"strings"
	"testing"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{Level: level, Output: &buf, Prefix: "test"}), &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("Expected low levels filtered, got %q", out)
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Errorf("Expected warn and error present, got %q", out)
	}
}

func TestLogger_Formatting(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)

	l.Info("lint '%s' as %s", "test.py", "flake8")

	out := buf.String()
	if !strings.Contains(out, "lint 'test.py' as flake8") {
		t.Errorf("Expected formatted message, got %q", out)
	}
	if !strings.Contains(out, "[INFO]") || !strings.Contains(out, "test:") {
		t.Errorf("Expected level and prefix, got %q", out)
	}
}

func TestLogger_WithChecker(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)

	l.WithChecker("flake8").Debug("output received")

	out := buf.String()
	if !strings.Contains(out, "checker=flake8") {
		t.Errorf("Expected checker field, got %q", out)
	}

	// The derived logger must not mutate the parent.
	buf.Reset()
	l.Debug("plain")
	if strings.Contains(buf.String(), "checker=") {
		t.Error("Expected parent logger unchanged")
	}
}

func TestLogger_SetLevel(t *testing.T) {
	l, buf := newBufferLogger(LevelError)

	l.Info("hidden")
	l.SetLevel(LevelDebug)
	l.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "visible") {
		t.Errorf("Expected level change to apply, got %q", out)
	}
}

func TestNullLoggerDiscards(t *testing.T) {
	// Null has no output writer; logging must not panic.
	Null.Error("dropped")
	Null.WithChecker("x").Debug("dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
