// Package pipeline implements the Markdown-to-HTML stage of a spec build.
//
// This package handles the stages that follow preprocessing:
//   - Markdown to HTML conversion via Goldmark, with chroma highlighting
//   - Title extraction for the HTML document
//   - CSS injection into the HTML document
//
// It also provides Normalizer, a built-in preprocessor hook that cleans up
// line endings and blank lines before parsing.
//
// PDF generation is handled separately by the root specdoc package using
// headless Chrome (go-rod).
package pipeline
