package main

import (
	"errors"
	"os"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/config"
	"github.com/alnah/go-specdoc/internal/grammar"
	"github.com/alnah/go-specdoc/internal/split"
	"github.com/alnah/go-specdoc/internal/toc"
)

// Exit codes for the specdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitFilter  = 5 // A preprocessor filter failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Filter errors (exit 5). Checked first: they may wrap os errors.
	if errors.Is(err, specdoc.ErrFilterFailed) ||
		errors.Is(err, grammar.ErrInvalidGrammar) {
		return ExitFilter
	}

	// Browser errors (exit 4)
	if errors.Is(err, specdoc.ErrBrowserConnect) ||
		errors.Is(err, specdoc.ErrPageCreate) ||
		errors.Is(err, specdoc.ErrPageLoad) ||
		errors.Is(err, specdoc.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrOutputExists) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidPreprocessor) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, config.ErrInvalidTOCLevel) ||
		errors.Is(err, config.ErrInvalidPDF) ||
		errors.Is(err, specdoc.ErrInvalidPageSetup) ||
		errors.Is(err, specdoc.ErrEmptyMarkdown) ||
		errors.Is(err, specdoc.ErrEmptyCommand) ||
		errors.Is(err, specdoc.ErrDuplicatePreprocessor) ||
		errors.Is(err, toc.ErrInvalidLevel) ||
		errors.Is(err, split.ErrTopLevelHeading) ||
		errors.Is(err, split.ErrNoChapters) {
		return ExitUsage
	}

	return ExitGeneral
}
