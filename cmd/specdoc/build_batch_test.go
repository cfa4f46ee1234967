package main

// Notes:
// - buildBatch: we test result ordering, output writing, pool acquire
//   failures, and that the first hook failure (filter or grammar) cancels the
//   rest of the batch.
// - poolAdapter: Acquire/Release/Size on a real BuilderPool and the panic on
//   a foreign builder type. Builders are never used to render, so no browser
//   is launched.
// - buildFile: Duration is measured with the clock from buildParams.
// - printResults: summary lines and quiet/verbose output.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/grammar"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake builders and pool
// ---------------------------------------------------------------------------

// funcBuilder is a DocBuilder backed by a function.
type funcBuilder func(ctx context.Context, in specdoc.Input) (*specdoc.Result, error)

func (f funcBuilder) Build(ctx context.Context, in specdoc.Input) (*specdoc.Result, error) {
	return f(ctx, in)
}

// upperBuilder renders the uppercased Markdown as both HTML and PDF.
var upperBuilder = funcBuilder(func(_ context.Context, in specdoc.Input) (*specdoc.Result, error) {
	up := strings.ToUpper(in.Markdown)
	return &specdoc.Result{Markdown: up, HTML: "<p>" + up + "</p>", PDF: []byte("%PDF " + up)}, nil
})

// fakePool hands out the same builder to every caller.
type fakePool struct {
	builder    DocBuilder
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (p *fakePool) Acquire() (DocBuilder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.builder, nil
}

func (p *fakePool) Release(DocBuilder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int { return p.size }

// markdownFiles writes n documents and returns their build entries.
func markdownFiles(t *testing.T, n int, ext string) []FileToBuild {
	t.Helper()
	dir := t.TempDir()
	files := make([]FileToBuild, n)
	for i := range files {
		name := string(rune('a'+i)) + ".md"
		in := writeFile(t, dir, name, "# doc "+name+"\n")
		files[i] = FileToBuild{
			InputPath:  in,
			OutputPath: filepath.Join(dir, "out", strings.TrimSuffix(name, ".md")+ext),
		}
	}
	return files
}

// ---------------------------------------------------------------------------
// TestBuildBatch - Concurrent builds
// ---------------------------------------------------------------------------

func TestBuildBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		results, err := buildBatch(context.Background(), &fakePool{builder: upperBuilder, size: 2}, nil, &buildParams{})
		if err != nil || results != nil {
			t.Errorf("got %v, %v; want nil, nil", results, err)
		}
	})

	t.Run("writes html outputs in input order", func(t *testing.T) {
		t.Parallel()

		files := markdownFiles(t, 4, ".html")
		pool := &fakePool{builder: upperBuilder, size: 2}

		results, err := buildBatch(context.Background(), pool, files, &buildParams{htmlOnly: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(files) {
			t.Fatalf("got %d results, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("result %d: %v", i, r.Err)
				continue
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("result %d input = %s, want %s", i, r.InputPath, files[i].InputPath)
			}
			data, err := os.ReadFile(r.OutputPath)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if !strings.HasPrefix(string(data), "<p># DOC") {
				t.Errorf("output %s = %q", r.OutputPath, data)
			}
		}
		if pool.acquired != 4 || pool.released != 4 {
			t.Errorf("acquired/released = %d/%d, want 4/4", pool.acquired, pool.released)
		}
	})

	t.Run("writes pdf bytes", func(t *testing.T) {
		t.Parallel()

		files := markdownFiles(t, 1, ".pdf")
		results, err := buildBatch(context.Background(), &fakePool{builder: upperBuilder, size: 1}, files, &buildParams{})
		if err != nil || results[0].Err != nil {
			t.Fatalf("unexpected errors: %v, %v", err, results[0].Err)
		}
		data, _ := os.ReadFile(results[0].OutputPath)
		if !strings.HasPrefix(string(data), "%PDF") {
			t.Errorf("output = %q, want PDF bytes", data)
		}
	})

	t.Run("passes build parameters", func(t *testing.T) {
		t.Parallel()

		var got specdoc.Input
		var mu sync.Mutex
		b := funcBuilder(func(_ context.Context, in specdoc.Input) (*specdoc.Result, error) {
			mu.Lock()
			got = in
			mu.Unlock()
			return &specdoc.Result{HTML: "x"}, nil
		})

		files := markdownFiles(t, 1, ".html")
		_, err := buildBatch(context.Background(), &fakePool{builder: b, size: 1}, files,
			&buildParams{css: "body{}", title: "Spec", htmlOnly: true})
		if err != nil {
			t.Fatal(err)
		}
		if got.CSS != "body{}" || got.Title != "Spec" || !got.HTMLOnly || got.Markdown != "# doc a.md\n" {
			t.Errorf("input = %+v", got)
		}
	})

	t.Run("missing input reported per file", func(t *testing.T) {
		t.Parallel()

		files := []FileToBuild{{InputPath: filepath.Join(t.TempDir(), "gone.md"), OutputPath: "x.pdf"}}
		results, err := buildBatch(context.Background(), &fakePool{builder: upperBuilder, size: 1}, files, &buildParams{})
		if err != nil {
			t.Fatalf("batch error should be nil, got %v", err)
		}
		if !errors.Is(results[0].Err, ErrReadMarkdown) {
			t.Errorf("expected ErrReadMarkdown, got %v", results[0].Err)
		}
	})

	t.Run("acquire failure reported per file", func(t *testing.T) {
		t.Parallel()

		files := markdownFiles(t, 2, ".pdf")
		pool := &fakePool{size: 2, acquireErr: specdoc.ErrPoolClosed}
		results, err := buildBatch(context.Background(), pool, files, &buildParams{})
		if err != nil {
			t.Fatalf("batch error should be nil, got %v", err)
		}
		for _, r := range results {
			if !errors.Is(r.Err, specdoc.ErrPoolClosed) {
				t.Errorf("expected ErrPoolClosed, got %v", r.Err)
			}
		}
	})

	t.Run("build error does not stop the batch", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var calls atomic.Int32
		b := funcBuilder(func(_ context.Context, in specdoc.Input) (*specdoc.Result, error) {
			calls.Add(1)
			if strings.Contains(in.Markdown, "a.md") {
				return nil, boom
			}
			return &specdoc.Result{HTML: "ok"}, nil
		})

		files := markdownFiles(t, 3, ".html")
		results, err := buildBatch(context.Background(), &fakePool{builder: b, size: 1}, files, &buildParams{htmlOnly: true})
		if err != nil {
			t.Fatalf("batch error should be nil, got %v", err)
		}
		if calls.Load() != 3 {
			t.Errorf("builder called %d times, want 3", calls.Load())
		}
		if !errors.Is(results[0].Err, boom) || results[1].Err != nil || results[2].Err != nil {
			t.Errorf("results = %+v", results)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildBatch_FilterFailureStops - First filter failure cancels the batch
// ---------------------------------------------------------------------------

func TestBuildBatch_FilterFailureStops(t *testing.T) {
	t.Parallel()

	filterErr := &specdoc.FilterError{Command: "sh fail.sh", Stderr: "M\n", ExitCode: 1}
	b := funcBuilder(func(ctx context.Context, in specdoc.Input) (*specdoc.Result, error) {
		if strings.Contains(in.Markdown, "a.md") {
			return nil, filterErr
		}
		// Later documents wait until the failure cancels them.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return &specdoc.Result{HTML: "late"}, nil
		}
	})

	files := markdownFiles(t, 5, ".html")
	start := time.Now()
	results, err := buildBatch(context.Background(), &fakePool{builder: b, size: 2}, files, &buildParams{htmlOnly: true})

	if err != filterErr {
		t.Fatalf("batch error = %v, want the filter error unchanged", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("batch did not stop promptly after the filter failure")
	}
	for i, r := range results[1:] {
		if r.Err == nil {
			t.Errorf("result %d should have been cancelled", i+1)
		}
		if _, statErr := os.Stat(files[i+1].OutputPath); statErr == nil {
			t.Errorf("output %s should not exist", files[i+1].OutputPath)
		}
	}
}

func TestBuildBatch_GrammarFailureStops(t *testing.T) {
	t.Parallel()

	blockErr := &grammar.BlockError{Reason: "missing semicolon", Block: "x := y\n"}
	b := funcBuilder(func(ctx context.Context, in specdoc.Input) (*specdoc.Result, error) {
		if strings.Contains(in.Markdown, "a.md") {
			return nil, blockErr
		}
		return upperBuilder(ctx, in)
	})

	files := markdownFiles(t, 3, ".html")
	results, err := buildBatch(context.Background(), &fakePool{builder: b, size: 1}, files, &buildParams{htmlOnly: true})

	if err != blockErr {
		t.Fatalf("batch error = %v, want the grammar error unchanged", err)
	}
	if got := exitCodeFor(err); got != ExitFilter {
		t.Errorf("exitCodeFor() = %d, want %d", got, ExitFilter)
	}
	for i, r := range results[1:] {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i+1, r.Err)
		}
		if _, statErr := os.Stat(files[i+1].OutputPath); statErr == nil {
			t.Errorf("output %s should not exist", files[i+1].OutputPath)
		}
	}
}

func TestHookFailed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"filter", &specdoc.FilterError{ExitCode: 1}, true},
		{"wrapped grammar", fmt.Errorf("a.md: %w", &grammar.BlockError{Reason: "missing semicolon"}), true},
		{"empty markdown", specdoc.ErrEmptyMarkdown, false},
		{"write failure", ErrWriteOutput, false},
		{"cancelled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hookFailed(tt.err); got != tt.want {
				t.Errorf("hookFailed(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildFile - Duration from the injected clock
// ---------------------------------------------------------------------------

func TestBuildFile_Duration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		builder DocBuilder
		wantErr bool
	}{
		{"success", upperBuilder, false},
		{"failure", funcBuilder(func(context.Context, specdoc.Input) (*specdoc.Result, error) {
			return nil, specdoc.ErrEmptyMarkdown
		}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			params := &buildParams{htmlOnly: true, now: func() time.Time {
				clock = clock.Add(250 * time.Millisecond)
				return clock
			}}

			f := markdownFiles(t, 1, ".html")[0]
			r := buildFile(context.Background(), tt.builder, f, params)
			if (r.Err != nil) != tt.wantErr {
				t.Fatalf("Err = %v, wantErr %v", r.Err, tt.wantErr)
			}
			if r.Duration != 250*time.Millisecond {
				t.Errorf("Duration = %v, want 250ms", r.Duration)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - Adapter over the real builder pool
// ---------------------------------------------------------------------------

func TestPoolAdapter(t *testing.T) {
	t.Parallel()

	t.Run("acquire release size", func(t *testing.T) {
		t.Parallel()

		pool := specdoc.NewBuilderPool(2, nil)
		defer pool.Close()
		adapter := &poolAdapter{pool: pool}

		if adapter.Size() != 2 {
			t.Errorf("Size() = %d, want 2", adapter.Size())
		}
		b, err := adapter.Acquire()
		if err != nil {
			t.Fatalf("Acquire() error: %v", err)
		}
		if b == nil {
			t.Fatal("Acquire() returned nil")
		}
		adapter.Release(b)
	})

	t.Run("acquire after close", func(t *testing.T) {
		t.Parallel()

		pool := specdoc.NewBuilderPool(1, nil)
		_ = pool.Close()
		adapter := &poolAdapter{pool: pool}

		if _, err := adapter.Acquire(); !errors.Is(err, specdoc.ErrPoolClosed) {
			t.Errorf("expected ErrPoolClosed, got %v", err)
		}
	})

	t.Run("release wrong type panics", func(t *testing.T) {
		t.Parallel()

		pool := specdoc.NewBuilderPool(1, nil)
		defer pool.Close()
		adapter := &poolAdapter{pool: pool}

		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic for wrong type, got none")
			}
			msg, ok := r.(string)
			if !ok {
				t.Fatalf("expected string panic, got %T", r)
			}
			if !strings.Contains(msg, "unexpected type") {
				t.Errorf("panic message should contain 'unexpected type', got %q", msg)
			}
		}()

		adapter.Release(upperBuilder)
	})
}

// ---------------------------------------------------------------------------
// TestPrintResults - Result reporting
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []BuildResult{
		{InputPath: "a.md", OutputPath: "a.pdf", Duration: 12 * time.Millisecond},
		{InputPath: "b.md", Err: errors.New("boom")},
		{InputPath: "c.md", Err: context.Canceled},
	}

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		env := testEnv("")
		failed := printResults(results, false, false, env.Environment)

		if failed != 2 {
			t.Errorf("failed = %d, want 2", failed)
		}
		if !strings.Contains(env.stdout.String(), "Created a.pdf") {
			t.Errorf("stdout = %q", env.stdout.String())
		}
		if !strings.Contains(env.stdout.String(), "1 succeeded, 2 failed") {
			t.Errorf("summary missing: %q", env.stdout.String())
		}
		if !strings.Contains(env.stderr.String(), "FAILED b.md: boom") {
			t.Errorf("stderr = %q", env.stderr.String())
		}
		if strings.Contains(env.stderr.String(), "c.md") {
			t.Errorf("cancelled build should not be reported: %q", env.stderr.String())
		}
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()

		env := testEnv("")
		printResults(results, true, false, env.Environment)

		if env.stdout.Len() != 0 {
			t.Errorf("quiet stdout = %q, want empty", env.stdout.String())
		}
		if !strings.Contains(env.stderr.String(), "FAILED b.md") {
			t.Error("failures must be shown even when quiet")
		}
	})

	t.Run("verbose", func(t *testing.T) {
		t.Parallel()

		env := testEnv("")
		printResults(results[:1], false, true, env.Environment)

		if !strings.Contains(env.stdout.String(), "a.md -> a.pdf (12ms)") {
			t.Errorf("stdout = %q", env.stdout.String())
		}
	})
}
