package specdoc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fakes shared across package tests
// ---------------------------------------------------------------------------

// fakeCall records one CommandRunner invocation.
type fakeCall struct {
	name  string
	args  []string
	stdin string
}

// fakeRunner returns canned output and records what it was asked to run.
type fakeRunner struct {
	mu     sync.Mutex
	stdout string
	stderr string
	err    error
	calls  []fakeCall
}

func (r *fakeRunner) Run(_ context.Context, stdin io.Reader, name string, args ...string) (string, string, error) {
	in, _ := io.ReadAll(stdin)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fakeCall{name: name, args: args, stdin: string(in)})
	return r.stdout, r.stderr, r.err
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// fakeExitError mimics *exec.ExitError.
type fakeExitError struct{ code int }

func (e *fakeExitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e *fakeExitError) ExitCode() int { return e.code }

// funcHook is a Preprocessor backed by a function.
type funcHook struct {
	name  string
	fn    func(string) ([]string, error)
	calls int
	input string
}

func (h *funcHook) Name() string { return h.name }

func (h *funcHook) Process(_ context.Context, src io.Reader) ([]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	h.calls++
	h.input = string(data)
	return h.fn(h.input)
}

// upperHook uppercases every line.
func upperHook(name string) *funcHook {
	return &funcHook{name: name, fn: func(s string) ([]string, error) {
		return SplitLines(strings.ToUpper(s)), nil
	}}
}

// suffixHook appends suffix to every line.
func suffixHook(name, suffix string) *funcHook {
	return &funcHook{name: name, fn: func(s string) ([]string, error) {
		lines := SplitLines(s)
		for i := range lines {
			lines[i] += suffix
		}
		return lines, nil
	}}
}

type mockHTMLConverter struct {
	called bool
	input  string
	title  string
	err    error
}

func (m *mockHTMLConverter) ToHTML(_ context.Context, content, title string) (string, error) {
	m.called = true
	m.input = content
	m.title = title
	if m.err != nil {
		return "", m.err
	}
	return "<html><head></head><body>" + content + "</body></html>", nil
}

type mockPDFConverter struct {
	called    bool
	closed    bool
	inputHTML string
	err       error
}

func (m *mockPDFConverter) ToPDF(_ context.Context, htmlContent string) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	if m.err != nil {
		return nil, m.err
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}
