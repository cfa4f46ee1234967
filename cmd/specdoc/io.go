package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-specdoc"
)

// openInput opens the single positional input, or stdin when it is
// absent or "-". Close is a no-op for stdin.
func openInput(positional []string, stdin io.Reader) (io.ReadCloser, error) {
	switch {
	case len(positional) > 1:
		return nil, fmt.Errorf("%w: expected at most one input, got %d", ErrUsage, len(positional))
	case len(positional) == 0 || positional[0] == "-":
		return io.NopCloser(stdin), nil
	}

	f, err := os.Open(positional[0]) // #nosec G304 -- user-provided input
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return f, nil
}

// writeLines writes lines to w, each terminated by a newline.
func writeLines(w io.Writer, lines []string) error {
	if _, err := io.WriteString(w, specdoc.JoinLines(lines)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, stdout io.Writer, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	// #nosec G306 -- generated Markdown is meant to be readable
	if err := os.WriteFile(path, buf.Bytes(), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
