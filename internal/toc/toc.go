// Package toc builds a Markdown table of contents from the headings of a
// specification document.
//
// Both heading styles are recognized: setext headings ("===" underline for
// level 1, "---" for level 2) and ATX headings ("#" through "######").
// Headings inside fenced code blocks are ignored.
package toc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-specdoc/internal/slug"
)

// Defaults for Options.
const (
	DefaultFile     = "SPECIFICATION.md"
	DefaultMinLevel = 2
	DefaultMaxLevel = 6
	DefaultCaption  = "**Table of Contents**"
)

// ErrInvalidLevel reports a level range outside 1..6 or inverted.
var ErrInvalidLevel = errors.New("invalid heading level range")

// Options controls which headings are listed and how links are built.
type Options struct {
	File     string // Link target; DefaultFile when empty
	Title    string // Optional "# Title" line printed above the caption
	MinLevel int    // Shallowest heading listed; DefaultMinLevel when 0
	MaxLevel int    // Deepest heading listed; DefaultMaxLevel when 0
}

func (o Options) withDefaults() Options {
	if o.File == "" {
		o.File = DefaultFile
	}
	if o.MinLevel == 0 {
		o.MinLevel = DefaultMinLevel
	}
	if o.MaxLevel == 0 {
		o.MaxLevel = DefaultMaxLevel
	}
	return o
}

// Validate checks the level range.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.MinLevel < 1 || o.MaxLevel > 6 || o.MinLevel > o.MaxLevel {
		return fmt.Errorf("%w: %d-%d (must be within 1-6)", ErrInvalidLevel, o.MinLevel, o.MaxLevel)
	}
	return nil
}

// Entry is one heading of the tree.
type Entry struct {
	Title    string
	Level    int
	Anchor   string
	Children []*Entry
}

// Parse reads a Markdown document and returns its heading tree. A heading
// is nested under the closest preceding heading of a smaller level; when
// levels are skipped it attaches to the deepest open ancestor.
func Parse(r io.Reader, opts Options) ([]*Entry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	var roots []*Entry
	var stack []*Entry

	add := func(title string, level int) {
		title = strings.TrimSpace(title)
		if title == "" || level < opts.MinLevel || level > opts.MaxLevel {
			return
		}
		e := &Entry{Title: title, Level: level, Anchor: slug.Anchor(title)}
		for len(stack) > 0 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, e)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, e)
		}
		stack = append(stack, e)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	inFence := false
	lastLine := ""
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~"):
			inFence = !inFence
			lastLine = ""
		case inFence:
			// skip
		case strings.HasPrefix(line, "==="):
			add(lastLine, 1)
			lastLine = ""
		case strings.HasPrefix(line, "---"):
			add(lastLine, 2)
			lastLine = ""
		case strings.HasPrefix(line, "#"):
			name := strings.TrimLeft(line, "#")
			level := len(line) - len(name)
			if level <= 6 && (name == "" || name[0] == ' ' || name[0] == '\t') {
				add(strings.TrimRight(strings.TrimSpace(name), "#"), level)
			}
			lastLine = ""
		default:
			lastLine = strings.TrimSpace(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return roots, nil
}

// Render writes the tree as a nested Markdown list, two spaces per level.
func Render(w io.Writer, entries []*Entry, opts Options) error {
	opts = opts.withDefaults()

	bw := bufio.NewWriter(w)
	if opts.Title != "" {
		fmt.Fprintf(bw, "# %s\n\n", opts.Title)
	}
	fmt.Fprintln(bw, DefaultCaption)

	var walk func(entries []*Entry, depth int)
	walk = func(entries []*Entry, depth int) {
		for _, e := range entries {
			fmt.Fprintf(bw, "%s- [%s](%s#%s)\n", strings.Repeat("  ", depth), e.Title, opts.File, e.Anchor)
			walk(e.Children, depth+1)
		}
	}
	walk(entries, 0)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing table of contents: %w", err)
	}
	return nil
}

// Generate parses r and renders its table of contents to w.
func Generate(r io.Reader, w io.Writer, opts Options) error {
	entries, err := Parse(r, opts)
	if err != nil {
		return err
	}
	return Render(w, entries, opts)
}
