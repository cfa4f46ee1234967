package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/grammar"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// DocBuilder is the interface for the build service.
type DocBuilder interface {
	Build(ctx context.Context, in specdoc.Input) (*specdoc.Result, error)
}

// Compile-time interface implementation check.
var _ DocBuilder = (*specdoc.Builder)(nil)

// Pool abstracts builder pool operations for testability.
type Pool interface {
	Acquire() (DocBuilder, error)
	Release(DocBuilder)
	Size() int
}

// poolAdapter exposes a *specdoc.BuilderPool as a Pool.
type poolAdapter struct {
	pool *specdoc.BuilderPool
}

var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (DocBuilder, error) {
	b, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Release panics when given a builder the pool did not hand out.
func (a *poolAdapter) Release(b DocBuilder) {
	sb, ok := b.(*specdoc.Builder)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", b))
	}
	a.pool.Release(sb)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

// buildParams groups parameters shared across a batch.
type buildParams struct {
	css      string
	title    string
	htmlOnly bool
	now      func() time.Time // Clock for BuildResult.Duration; nil = time.Now
}

func (p *buildParams) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}

// BuildResult holds the outcome of a single build.
type BuildResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// hookFailed reports whether err comes from a preprocessor rejecting the
// document: an external filter exiting non-zero or an invalid grammar block.
// Either one is fatal to the whole build.
func hookFailed(err error) bool {
	return errors.Is(err, specdoc.ErrFilterFailed) || errors.Is(err, grammar.ErrInvalidGrammar)
}

// buildBatch processes files concurrently on an ants worker pool. The first
// hook failure cancels every in-flight and pending build and is returned.
func buildBatch(ctx context.Context, pool Pool, files []FileToBuild, params *buildParams) ([]BuildResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	size := pool.Size()
	if size > len(files) {
		size = len(files)
	}

	results := make([]BuildResult, len(files))
	var (
		wg       sync.WaitGroup
		stopOnce sync.Once
		stopErr  error
	)

	workers, err := ants.NewPoolWithFunc(size, func(arg any) {
		idx, ok := arg.(int)
		if !ok {
			panic("build pool args type error")
		}
		defer wg.Done()

		f := files[idx]
		if err := ctx.Err(); err != nil {
			results[idx] = BuildResult{InputPath: f.InputPath, Err: err}
			return
		}

		b, err := pool.Acquire()
		if err != nil {
			results[idx] = BuildResult{InputPath: f.InputPath, Err: err}
			return
		}
		defer pool.Release(b)

		results[idx] = buildFile(ctx, b, f, params)
		if hookFailed(results[idx].Err) {
			stopOnce.Do(func() {
				stopErr = results[idx].Err
				cancel()
			})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer workers.Release()

	for i := range files {
		wg.Add(1)
		if err := workers.Invoke(i); err != nil {
			wg.Done()
			results[i] = BuildResult{InputPath: files[i].InputPath, Err: err}
		}
	}

	wg.Wait()
	return results, stopErr
}

// buildFile processes a single file and returns the result.
func buildFile(ctx context.Context, b DocBuilder, f FileToBuild, params *buildParams) BuildResult {
	start := params.clock()
	result := BuildResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) BuildResult {
		result.Err = err
		result.Duration = params.clock().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	res, err := b.Build(ctx, specdoc.Input{
		Markdown: string(content),
		Title:    params.title,
		CSS:      params.css,
		HTMLOnly: params.htmlOnly,
	})
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}

	data := res.PDF
	if params.htmlOnly {
		data = []byte(res.HTML)
	}
	// #nosec G306 -- outputs are meant to be readable
	if err := os.WriteFile(f.OutputPath, data, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	result.Duration = params.clock().Sub(start)
	return result
}

// ResultSummary holds the count of succeeded and failed builds.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed builds.
func countResults(results []BuildResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs build results and returns the failure count.
// Cancelled builds are logged at debug level only.
func printResults(results []BuildResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			if errors.Is(r.Err, context.Canceled) {
				env.Logger.WithField("input", r.InputPath).Debug("build cancelled")
				continue
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
