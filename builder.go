package specdoc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-specdoc/internal/pipeline"
)

// HTMLConverter converts Markdown to a standalone HTML document.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content, title string) (string, error)
}

// Compile-time interface check.
var _ HTMLConverter = (*pipeline.GoldmarkConverter)(nil)

// Input is one document to build.
type Input struct {
	Markdown   string // Raw source, before any hook runs
	Title      string // HTML <title>; empty = first level-1 heading
	CSS        string // Injected as a <style> block
	HTMLOnly   bool   // Skip PDF rendering
	AllowEmpty bool   // Accept blank Markdown
}

// Result holds every stage's output.
type Result struct {
	Markdown string // Text after all hooks
	HTML     string
	PDF      []byte // nil when HTMLOnly
}

// Builder runs preprocessor hooks and converts the result to HTML and PDF.
// It is not safe for concurrent use.
type Builder struct {
	timeout  time.Duration
	registry *Registry
	html     HTMLConverter
	css      pipeline.CSSInjector
	pdf      PDFConverter
	page     PageSetup
}

// NewBuilder creates a Builder. The browser is launched on the first PDF
// build, not here.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		timeout:  DefaultTimeout,
		registry: NewRegistry(),
		html:     pipeline.NewGoldmarkConverter(),
		css:      &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.registry == nil {
		return nil, ErrNilRegistry
	}
	if b.html == nil {
		return nil, fmt.Errorf("%w: HTML", ErrNilConverter)
	}
	if err := b.page.Validate(); err != nil {
		return nil, err
	}
	if b.pdf == nil {
		b.pdf = newChromeConverter(b.timeout, b.page)
	}

	return b, nil
}

// Registry returns the hooks this Builder runs.
func (b *Builder) Registry() *Registry { return b.registry }

// Build runs the pipeline for one document. Hook errors are returned
// unwrapped so a *FilterError reaches the caller as is.
//
// Every hook runs once even on an empty document; emptiness is checked on
// the text the hooks produce.
func (b *Builder) Build(ctx context.Context, in Input) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	lines, err := b.registry.Run(ctx, in.Markdown)
	if err != nil {
		return nil, err
	}
	md := JoinLines(lines)
	if !in.AllowEmpty && strings.TrimSpace(md) == "" {
		return nil, ErrEmptyMarkdown
	}

	title := in.Title
	if title == "" {
		title = pipeline.ExtractTitle(md)
	}

	htmlContent, err := b.html.ToHTML(ctx, md, title)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	htmlContent = b.css.InjectCSS(ctx, htmlContent, in.CSS)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Markdown: md, HTML: htmlContent}
	if in.HTMLOnly {
		return res, nil
	}

	res.PDF, err = b.pdf.ToPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return res, nil
}

// Close releases the headless browser, if one was started.
func (b *Builder) Close() error {
	if b.pdf != nil {
		return b.pdf.Close()
	}
	return nil
}
