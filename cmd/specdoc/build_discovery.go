package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ds "github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/fileutil"
)

// defaultInclude is used when the config lists no include patterns.
var defaultInclude = []string{"**/*.md", "**/*.markdown"}

// FileToBuild represents a single document to process.
type FileToBuild struct {
	InputPath  string
	OutputPath string
}

// discoverFiles expands every input into documents. A file input is taken
// as is; a directory input is searched with the include patterns.
func discoverFiles(inputs, include []string, outputDir string, htmlOnly bool) ([]FileToBuild, error) {
	if len(include) == 0 {
		include = defaultInclude
	}
	ext := outputExtension(htmlOnly)

	var files []FileToBuild
	seen := make(map[string]bool)
	add := func(in, out string) {
		if seen[in] {
			return
		}
		seen[in] = true
		files = append(files, FileToBuild{InputPath: in, OutputPath: out})
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(input); err != nil {
				return nil, err
			}
			add(input, resolveOutputPath(input, outputDir, "", ext, len(inputs) == 1))
			continue
		}

		matches, err := globMarkdown(input, include)
		if err != nil {
			return nil, err
		}
		for _, rel := range matches {
			path := filepath.Join(input, filepath.FromSlash(rel))
			add(path, resolveOutputPath(path, outputDir, input, ext, false))
		}
	}

	return files, nil
}

// globMarkdown returns the sorted, slash-separated paths under dir that
// match any pattern and have a Markdown extension.
func globMarkdown(dir string, patterns []string) ([]string, error) {
	fsys := os.DirFS(dir)
	set := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := ds.Glob(fsys, pattern, ds.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if fileutil.IsMarkdown(m) {
				set[m] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// resolveOutputPath determines the output path for a Markdown file.
// exact allows outputDir to name the output file itself.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string, exact bool) string {
	name := fileutil.SwapExtension(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if exact && strings.EqualFold(filepath.Ext(outputDir), ext) {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// outputExtension returns ".html" or ".pdf".
func outputExtension(htmlOnly bool) string {
	if htmlOnly {
		return ".html"
	}
	return ".pdf"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > specdoc.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, specdoc.MaxPoolSize)
	}
	return nil
}
