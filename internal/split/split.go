// Package split breaks a single-file specification into one Markdown file
// per chapter.
//
// Chapters start at level-2 setext headings ("---" underline). In the
// output each chapter title becomes a level-1 heading ("===" underline) and
// ATX headings move up one level, so every chapter file stands alone. Text
// before the first chapter is kept at the top of chapter 00.
package split

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-specdoc/internal/slug"
)

// Sentinel errors for split operations.
var (
	ErrTopLevelHeading = errors.New("level-1 setext heading not allowed in split input")
	ErrNoChapters      = errors.New("no chapters found")
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Chapter is one output file.
type Chapter struct {
	Index  int
	Title  string
	Anchor string
	Lines  []string
}

// FileName returns "NN-<anchor>.md".
func (c *Chapter) FileName() string {
	return fmt.Sprintf("%02d-%s.md", c.Index, c.Anchor)
}

// Content returns the chapter text, newline-terminated.
func (c *Chapter) Content() string {
	if len(c.Lines) == 0 {
		return ""
	}
	return strings.Join(c.Lines, "\n") + "\n"
}

// Split reads a specification and returns its chapters in order.
func Split(r io.Reader) ([]*Chapter, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var chapters []*Chapter
	var pending []string // lines not yet assigned to a chapter
	inFence := false
	lineNo := 0

	for sc.Scan() {
		line := sc.Text()
		lineNo++

		if isFence(line) {
			inFence = !inFence
			pending = append(pending, line)
			continue
		}
		if inFence {
			pending = append(pending, line)
			continue
		}

		switch {
		case strings.HasPrefix(line, "==="):
			return nil, fmt.Errorf("%w: line %d", ErrTopLevelHeading, lineNo)

		case strings.HasPrefix(line, "---") && len(pending) > 0 && strings.TrimSpace(pending[len(pending)-1]) != "":
			title := strings.TrimSpace(pending[len(pending)-1])
			body := pending[:len(pending)-1]

			ch := &Chapter{
				Index:  len(chapters),
				Title:  title,
				Anchor: slug.Anchor(title),
			}
			if len(chapters) == 0 {
				ch.Lines = append(ch.Lines, body...)
			} else {
				prev := chapters[len(chapters)-1]
				prev.Lines = append(prev.Lines, body...)
			}
			ch.Lines = append(ch.Lines, pending[len(pending)-1], strings.ReplaceAll(line, "-", "="))
			chapters = append(chapters, ch)
			pending = nil

		case strings.HasPrefix(line, "#"):
			pending = append(pending, promoteHeading(line))

		default:
			pending = append(pending, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(chapters) == 0 {
		return nil, ErrNoChapters
	}

	last := chapters[len(chapters)-1]
	last.Lines = append(last.Lines, pending...)
	return chapters, nil
}

// WriteDir writes every chapter into dir, creating it if needed, and
// returns the written paths.
func WriteDir(dir string, chapters []*Chapter) ([]string, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		path := filepath.Join(dir, ch.FileName())
		if err := os.WriteFile(path, []byte(ch.Content()), filePermissions); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// promoteHeading moves an ATX heading up one level. A level-1 heading
// becomes plain text, except one naming "Regular" expressions, which keeps
// its level. Lines that are not headings ("#include") are returned unchanged.
func promoteHeading(line string) string {
	name := strings.TrimLeft(line, "#")
	level := len(line) - len(name)
	if level > 6 {
		return line
	}
	if name != "" && name[0] != ' ' && name[0] != '\t' {
		return line
	}
	if level == 1 {
		if strings.Contains(line, "Regular") {
			return line
		}
		return strings.TrimLeft(name, " \t")
	}
	return strings.Repeat("#", level-1) + name
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}
