package specdoc

import "time"

// DefaultTimeout bounds a whole Build call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Option configures a Builder.
type Option func(*Builder)

// WithTimeout sets the per-document build timeout, hooks included.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("specdoc: WithTimeout duration must be positive")
	}
	return func(b *Builder) {
		b.timeout = d
	}
}

// WithRegistry sets the preprocessor hooks applied before conversion.
// Without it the Markdown is converted as given.
func WithRegistry(r *Registry) Option {
	return func(b *Builder) {
		b.registry = r
	}
}

// WithHTMLConverter replaces the Goldmark converter.
func WithHTMLConverter(c HTMLConverter) Option {
	return func(b *Builder) {
		b.html = c
	}
}

// WithPageSetup sets paper size, margins and page numbering for the default
// Chrome renderer. It has no effect together with WithPDFConverter.
func WithPageSetup(s PageSetup) Option {
	return func(b *Builder) {
		b.page = s
	}
}

// WithPDFConverter replaces the headless Chrome renderer.
func WithPDFConverter(c PDFConverter) Option {
	return func(b *Builder) {
		b.pdf = c
	}
}
