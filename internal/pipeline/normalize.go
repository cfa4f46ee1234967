package pipeline

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// NormalizerName is the registration name of the built-in normalizer.
const NormalizerName = "normalize"

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Normalizer is a built-in preprocessor hook that converts CRLF and CR line
// endings to LF and compresses runs of blank lines to one.
type Normalizer struct{}

// Name implements the preprocessor hook contract.
func (n *Normalizer) Name() string { return NormalizerName }

// Process reads the whole document and returns it normalized, split into lines.
func (n *Normalizer) Process(ctx context.Context, src io.Reader) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	content := Normalize(string(data))
	if content == "" {
		return []string{}, nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n"), nil
}

// Normalize applies line-ending normalization and blank-line compression.
func Normalize(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
