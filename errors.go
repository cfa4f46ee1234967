package specdoc

import (
	"errors"

	"github.com/alnah/go-specdoc/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown    = errors.New("markdown content cannot be empty")
	ErrHTMLConversion   = pipeline.ErrHTMLConversion
	ErrPDFGeneration    = errors.New("PDF generation failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrNilRegistry      = errors.New("registry cannot be nil")
	ErrNilConverter     = errors.New("converter cannot be nil")
	ErrInvalidPageSetup = errors.New("invalid page setup")

	// Preprocessor errors.
	ErrEmptyCommand          = errors.New("filter command cannot be empty")
	ErrFilterFailed          = errors.New("filter failed")
	ErrNilPreprocessor       = errors.New("preprocessor cannot be nil")
	ErrDuplicatePreprocessor = errors.New("preprocessor already registered")
	ErrUnnamedPreprocessor   = errors.New("preprocessor name cannot be empty")
)
