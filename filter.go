package specdoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Preprocessor rewrites a document's raw text before it is parsed.
// Process reads the whole document from src and returns the replacement
// content as an ordered sequence of lines.
type Preprocessor interface {
	Name() string
	Process(ctx context.Context, src io.Reader) ([]string, error)
}

// Compile-time interface check.
var _ Preprocessor = (*ScriptFilter)(nil)

// FilterError reports a filter that exited non-zero or could not be started.
// It matches ErrFilterFailed with errors.Is.
type FilterError struct {
	Command  string // Command line as displayed to the user
	Stderr   string // Captured standard error, verbatim
	ExitCode int    // -1 when the process never ran to completion
	Err      error  // Underlying exec error
}

func (e *FilterError) Error() string {
	var b strings.Builder
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, "filter %s exited with status %d", e.Command, e.ExitCode)
	} else {
		fmt.Fprintf(&b, "filter %s: %v", e.Command, e.Err)
	}
	if first := firstLine(e.Stderr); first != "" {
		b.WriteString(": ")
		b.WriteString(first)
	}
	return b.String()
}

func (e *FilterError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFilterFailed.
func (e *FilterError) Is(target error) bool { return target == ErrFilterFailed }

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// FilterOption configures a ScriptFilter.
type FilterOption func(*ScriptFilter)

// WithInterpreter runs the script through bin (e.g. "python3") instead of
// executing it directly.
func WithInterpreter(bin string) FilterOption {
	return func(f *ScriptFilter) {
		f.interpreter = bin
	}
}

// WithArgs appends extra arguments after the script path.
func WithArgs(args ...string) FilterOption {
	return func(f *ScriptFilter) {
		f.args = append(f.args, args...)
	}
}

// WithRunner replaces the command runner (used by tests).
func WithRunner(r CommandRunner) FilterOption {
	return func(f *ScriptFilter) {
		f.runner = r
	}
}

// WithName overrides the hook name (defaults to the script's base name).
func WithName(name string) FilterOption {
	return func(f *ScriptFilter) {
		f.name = name
	}
}

// ScriptFilter is a preprocessor hook that pipes the document through an
// external program. The program reads the whole document on stdin, writes
// the replacement on stdout, and signals success with exit status zero.
//
// A ScriptFilter holds only immutable configuration. Each Process call
// spawns exactly one process.
type ScriptFilter struct {
	name        string
	path        string
	interpreter string
	args        []string
	runner      CommandRunner
}

// NewScriptFilter creates a hook that runs the filter at path.
func NewScriptFilter(path string, opts ...FilterOption) (*ScriptFilter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyCommand
	}

	f := &ScriptFilter{
		name: filepath.Base(path),
		path: path,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.runner == nil {
		f.runner = &ExecRunner{}
	}
	if f.name == "" {
		return nil, ErrUnnamedPreprocessor
	}

	return f, nil
}

// Name returns the hook name.
func (f *ScriptFilter) Name() string { return f.name }

// Command returns the executable and arguments Process will run.
func (f *ScriptFilter) Command() (string, []string) {
	if f.interpreter != "" {
		return f.interpreter, append([]string{f.path}, f.args...)
	}
	return f.path, append([]string(nil), f.args...)
}

// String returns the command line for diagnostics.
func (f *ScriptFilter) String() string {
	name, args := f.Command()
	return strings.Join(append([]string{name}, args...), " ")
}

// Process runs the filter once with src as its standard input.
// On a non-zero exit it returns a *FilterError holding the filter's stderr;
// no partial output is returned.
func (f *ScriptFilter) Process(ctx context.Context, src io.Reader) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, args := f.Command()
	stdout, stderr, err := f.runner.Run(ctx, src, name, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, newFilterError(f.String(), stderr, err)
	}

	return SplitLines(stdout), nil
}

// newFilterError wraps a runner error with the captured stderr.
func newFilterError(command, stderr string, err error) *FilterError {
	code := -1
	var ec exitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	return &FilterError{
		Command:  command,
		Stderr:   stderr,
		ExitCode: code,
		Err:      err,
	}
}

// SplitLines splits filter output on newlines. A final newline terminates
// the last line rather than starting an empty one, so N newline-terminated
// lines yield exactly N elements and empty output yields none.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines: every line gets a trailing newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// firstLine returns the first non-blank line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
