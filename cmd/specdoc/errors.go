package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrOutputExists       = errors.New("output file already exists")
)

// usageError marks a flag parsing error as a usage error. flag.ErrHelp is
// returned unchanged so callers can treat -h as success.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
