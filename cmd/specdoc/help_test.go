package main

// Notes:
// - printUsage and per-command usage: required strings only, not layout.
// - runHelp: routing to the right topic and the unknown-topic path.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintUsage - Main usage output
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)

	for _, s := range []string{"Usage: specdoc", "Commands:", "build", "filter", "grammar", "toc", "split", "doctor", "init", "completion", "version", "help"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("printUsage output should contain %q", s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Topic routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic string
		want  string
	}{
		{"build", "Usage: specdoc build"},
		{"filter", "Usage: specdoc filter"},
		{"grammar", "Usage: specdoc grammar"},
		{"toc", "Usage: specdoc toc"},
		{"split", "Usage: specdoc split"},
		{"doctor", "Usage: specdoc doctor"},
		{"init", "Usage: specdoc init"},
		{"completion", "Usage: specdoc completion"},
		{"version", "Usage: specdoc version"},
		{"help", "Usage: specdoc help"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			t.Parallel()

			env := testEnv("")
			runHelp([]string{tt.topic}, env.Environment)
			if !strings.Contains(env.stdout.String(), tt.want) {
				t.Errorf("help %s = %q, want %q", tt.topic, env.stdout.String(), tt.want)
			}
		})
	}

	t.Run("unknown topic", func(t *testing.T) {
		t.Parallel()

		env := testEnv("")
		runHelp([]string{"convert"}, env.Environment)
		if !strings.Contains(env.stderr.String(), "Unknown command: convert") {
			t.Errorf("stderr = %q", env.stderr.String())
		}
		if env.stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", env.stdout.String())
		}
	})

	t.Run("build help lists hook flags", func(t *testing.T) {
		t.Parallel()

		env := testEnv("")
		runHelp([]string{"build"}, env.Environment)
		for _, flag := range []string{"--filter", "--interpreter", "--no-grammar", "--html-only"} {
			if !strings.Contains(env.stdout.String(), flag) {
				t.Errorf("build help missing %s", flag)
			}
		}
	})
}
