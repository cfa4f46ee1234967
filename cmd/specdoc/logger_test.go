package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// ---------------------------------------------------------------------------
// TestSetLogLevel - Flag to level mapping
// ---------------------------------------------------------------------------

func TestSetLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		quiet   bool
		verbose bool
		want    logrus.Level
	}{
		{"default is warn", false, false, logrus.WarnLevel},
		{"verbose is debug", false, true, logrus.DebugLevel},
		{"quiet is error", true, false, logrus.ErrorLevel},
		{"quiet wins over verbose", true, true, logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log := newLogger(&bytes.Buffer{}, tt.quiet, tt.verbose)
			if got := log.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger_Format - Plain text output without timestamps
// ---------------------------------------------------------------------------

func TestNewLogger_Format(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, false, true)
	log.WithField("hook", "grammar").Debug("registered preprocessor")

	out := buf.String()
	for _, want := range []string{"level=debug", `msg="registered preprocessor"`, "hook=grammar"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "time=") {
		t.Errorf("output should not carry a timestamp: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output should not carry color codes: %q", out)
	}
}

func TestNewLogger_DefaultHidesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, false, false)
	log.Debug("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message should be hidden at default level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be shown at default level")
	}
}
