package split

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleSpec = `Preamble line

Introduction
------------

Text.

## Scope

Lexical Grammar
---------------

` + "```" + `
## not a heading
` + "```" + `

# Notes
# Regular Expressions
`

// ---------------------------------------------------------------------------
// TestSplit - Chapter boundaries and heading promotion
// ---------------------------------------------------------------------------

func TestSplit(t *testing.T) {
	t.Parallel()

	chapters, err := Split(strings.NewReader(sampleSpec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("len(chapters) = %d, want 2", len(chapters))
	}

	first := chapters[0]
	if first.FileName() != "00-introduction.md" {
		t.Errorf("FileName() = %q, want %q", first.FileName(), "00-introduction.md")
	}
	wantFirst := []string{
		"Preamble line",
		"",
		"Introduction",
		"============",
		"",
		"Text.",
		"",
		"# Scope",
		"",
	}
	if !reflect.DeepEqual(first.Lines, wantFirst) {
		t.Errorf("first.Lines =\n%q\nwant\n%q", first.Lines, wantFirst)
	}

	second := chapters[1]
	if second.FileName() != "01-lexical-grammar.md" {
		t.Errorf("FileName() = %q, want %q", second.FileName(), "01-lexical-grammar.md")
	}
	wantSecond := []string{
		"Lexical Grammar",
		"===============",
		"",
		"```",
		"## not a heading",
		"```",
		"",
		"Notes",
		"# Regular Expressions",
	}
	if !reflect.DeepEqual(second.Lines, wantSecond) {
		t.Errorf("second.Lines =\n%q\nwant\n%q", second.Lines, wantSecond)
	}
}

func TestSplit_TopLevelHeading(t *testing.T) {
	t.Parallel()

	_, err := Split(strings.NewReader("Title\n=====\n"))
	if !errors.Is(err, ErrTopLevelHeading) {
		t.Fatalf("error = %v, want ErrTopLevelHeading", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %q, want line number", err)
	}
}

func TestSplit_NoChapters(t *testing.T) {
	t.Parallel()

	_, err := Split(strings.NewReader("just text\n\n---\n"))
	if !errors.Is(err, ErrNoChapters) {
		t.Fatalf("error = %v, want ErrNoChapters", err)
	}
}

// ---------------------------------------------------------------------------
// TestPromoteHeading - ATX level shift
// ---------------------------------------------------------------------------

func TestPromoteHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want string
	}{
		{"## Scope", "# Scope"},
		{"### Deep", "## Deep"},
		{"# Regular Expressions", "# Regular Expressions"},
		{"# Appendix", "Appendix"},
		{"#", ""},
		{"#include", "#include"},
		{"##", "#"},
		{"####### seven", "####### seven"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			if got := promoteHeading(tt.line); got != tt.want {
				t.Errorf("promoteHeading(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteDir - Chapter files on disk
// ---------------------------------------------------------------------------

func TestWriteDir(t *testing.T) {
	t.Parallel()

	chapters, err := Split(strings.NewReader(sampleSpec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "core")
	paths, err := WriteDir(dir, chapters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2", len(paths))
	}

	data, err := os.ReadFile(filepath.Join(dir, "01-lexical-grammar.md"))
	if err != nil {
		t.Fatalf("reading chapter: %v", err)
	}
	if !strings.HasPrefix(string(data), "Lexical Grammar\n===============\n") {
		t.Errorf("chapter content = %q", data)
	}
	if !strings.HasSuffix(string(data), "# Regular Expressions\n") {
		t.Errorf("chapter does not end with last line: %q", data)
	}
}
