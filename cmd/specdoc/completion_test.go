package main

// Notes:
// - GenerateCompletion: each script names every command and the flags taken
//   from the real FlagSets, so a new flag shows up without extra wiring.
// - Scripts are not executed by a shell here.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script content per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{"complete -F _specdoc specdoc", "--html-only", "--no-grammar", "extract preprocess", "*.yaml"}},
		{ShellZsh, []string{"#compdef specdoc", "'build:Build HTML/PDF from markdown'", "--html-only", `_files -g "*.css"`, "_files -/"}},
		{ShellFish, []string{"complete -c specdoc", "-l html-only", "-l filter -r", "-l config -s c -r -F"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out := buf.String()
			for _, name := range []string{"build", "filter", "grammar", "toc", "split", "doctor", "init", "completion"} {
				if !strings.Contains(out, name) {
					t.Errorf("script missing command %q", name)
				}
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("script missing %q", want)
				}
			}
		})
	}

	t.Run("unsupported shell", func(t *testing.T) {
		t.Parallel()

		err := GenerateCompletion(&bytes.Buffer{}, Shell("tcsh"))
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("expected ErrUnsupportedShell, got %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestGetCommands - Flags mirror the parsers
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	byName := make(map[string]commandDef)
	for _, c := range getCommands() {
		byName[c.Name] = c
	}

	build, ok := byName["build"]
	if !ok {
		t.Fatal("build command missing")
	}
	flags := make(map[string]flagDef)
	for _, f := range build.Flags {
		flags[f.Long] = f
	}
	if f := flags["output"]; f.Short != "o" || f.IsBool {
		t.Errorf("output flag = %+v", f)
	}
	if f := flags["html-only"]; !f.IsBool {
		t.Errorf("html-only should be boolean: %+v", f)
	}
	if f := flags["css"]; f.FileGlob != "*.css" {
		t.Errorf("css glob = %q", f.FileGlob)
	}

	for _, f := range byName["split"].Flags {
		if f.Long == "output" && !f.IsDir {
			t.Error("split --output should complete directories")
		}
	}
}

func TestRunCompletion_NoArgs(t *testing.T) {
	t.Parallel()

	env := testEnv("")
	if code := run(env, "completion"); code != ExitSuccess {
		t.Errorf("exit code = %d", code)
	}
	if !strings.Contains(env.stdout.String(), "Usage: specdoc completion <shell>") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}
