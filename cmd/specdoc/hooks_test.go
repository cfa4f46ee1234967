package main

// Notes:
// - newRegistry: order of config hooks then --filter hooks, --no-grammar,
//   explicit names for builtins, and duplicate name rejection.
// - Hooks are inspected through Registry.Names and ScriptFilter.String; no
//   filter process is started here.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/config"
)

// ---------------------------------------------------------------------------
// TestNewRegistry - Hook registration from config and flags
// ---------------------------------------------------------------------------

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Preprocessors: []config.PreprocessorConfig{
			{Builtin: config.BuiltinNormalize},
			{Builtin: config.BuiltinGrammar},
			{Command: "tools/check.py", Interpreter: "python3", Args: []string{"--strict"}},
			{Name: "fmt", Command: "sed", Args: []string{"s/a/b/"}},
		},
	}

	tests := []struct {
		name  string
		flags hookFlags
		want  []string
	}{
		{
			name: "config order",
			want: []string{"normalize", "grammar", "check.py", "fmt"},
		},
		{
			name:  "no grammar",
			flags: hookFlags{noGrammar: true},
			want:  []string{"normalize", "check.py", "fmt"},
		},
		{
			name:  "filters appended",
			flags: hookFlags{filters: []string{"extra/a.sh", "b.sh"}},
			want:  []string{"normalize", "grammar", "check.py", "fmt", "a.sh", "b.sh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, err := newRegistry(cfg, tt.flags, newLogger(&bytes.Buffer{}, false, false))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.Join(reg.Names(), ","); got != strings.Join(tt.want, ",") {
				t.Errorf("names = %s, want %s", got, strings.Join(tt.want, ","))
			}
		})
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate filter names", func(t *testing.T) {
		t.Parallel()

		_, err := newRegistry(config.DefaultConfig(), hookFlags{filters: []string{"a/x.sh", "b/x.sh"}},
			newLogger(&bytes.Buffer{}, false, false))
		if !errors.Is(err, specdoc.ErrDuplicatePreprocessor) {
			t.Errorf("expected ErrDuplicatePreprocessor, got %v", err)
		}
	})

	t.Run("blank filter", func(t *testing.T) {
		t.Parallel()

		_, err := newRegistry(config.DefaultConfig(), hookFlags{filters: []string{" "}},
			newLogger(&bytes.Buffer{}, false, false))
		if !errors.Is(err, specdoc.ErrEmptyCommand) {
			t.Errorf("expected ErrEmptyCommand, got %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewHook - Hook construction per declaration
// ---------------------------------------------------------------------------

func TestNewHook(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Grammar: config.GrammarConfig{Language: "Acme"}}

	t.Run("command with interpreter and args", func(t *testing.T) {
		t.Parallel()

		hook, err := newHook(cfg, config.PreprocessorConfig{
			Command: "tools/check.py", Interpreter: "python3", Args: []string{"--strict"},
		})
		if err != nil {
			t.Fatal(err)
		}
		sf, ok := hook.(*specdoc.ScriptFilter)
		if !ok {
			t.Fatalf("hook is %T, want *specdoc.ScriptFilter", hook)
		}
		if got := sf.String(); got != "python3 tools/check.py --strict" {
			t.Errorf("command = %q", got)
		}
	})

	t.Run("renamed builtin", func(t *testing.T) {
		t.Parallel()

		hook, err := newHook(cfg, config.PreprocessorConfig{Name: "collect", Builtin: config.BuiltinGrammar})
		if err != nil {
			t.Fatal(err)
		}
		if hook.Name() != "collect" {
			t.Errorf("Name() = %q, want collect", hook.Name())
		}
	})

	t.Run("builtin keeps its name", func(t *testing.T) {
		t.Parallel()

		hook, err := newHook(cfg, config.PreprocessorConfig{Builtin: config.BuiltinNormalize})
		if err != nil {
			t.Fatal(err)
		}
		if _, wrapped := hook.(namedHook); wrapped {
			t.Error("builtin without explicit name should not be wrapped")
		}
		if hook.Name() != "normalize" {
			t.Errorf("Name() = %q, want normalize", hook.Name())
		}
	})
}
