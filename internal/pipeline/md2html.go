package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultTitle is used when the document has no heading.
const DefaultTitle = "Document"

// documentHead opens every generated page; the title is the only variable.
const documentHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="specdoc">
<title>`

// wrapDocument places a rendered fragment in a standalone HTML5 page.
func wrapDocument(title string, body []byte) string {
	var b strings.Builder
	b.Grow(len(documentHead) + len(title) + len(body) + 64)
	b.WriteString(documentHead)
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.Write(body)
	b.WriteString("\n</body>\n</html>")
	return b.String()
}

var (
	atxH1     = regexp.MustCompile(`^#\s+(.+?)\s*#*\s*$`)
	setextH1  = regexp.MustCompile(`^=+\s*$`)
	fenceLine = regexp.MustCompile("^(```|~~~)")
)

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content, title string) (string, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // anchors referenced by the toc command
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to a standalone HTML5 document titled
// title (DefaultTitle when empty). Goldmark takes no context, so the
// conversion runs in its own goroutine and ToHTML returns as soon as ctx
// is done.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if title == "" {
		title = DefaultTitle
	}

	var (
		body bytes.Buffer
		err  error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err = c.md.Convert([]byte(content), &body)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-done:
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return wrapDocument(title, body.Bytes()), nil
}

// ExtractTitle returns the first level-1 heading (ATX or setext) outside
// fenced code blocks, or "" if there is none.
func ExtractTitle(markdown string) string {
	lines := strings.Split(markdown, "\n")
	inFence := false
	prev := ""
	for _, line := range lines {
		if fenceLine.MatchString(line) {
			inFence = !inFence
			prev = ""
			continue
		}
		if inFence {
			continue
		}
		if m := atxH1.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		if setextH1.MatchString(line) && strings.TrimSpace(prev) != "" {
			return strings.TrimSpace(prev)
		}
		prev = line
	}
	return ""
}
