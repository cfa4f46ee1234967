package grammar

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Marker is the line prefix replaced by the collected grammar.
const Marker = "AUTO_REPLACE_WITH_GRAMMAR"

// DefaultLanguage names the grammar in the generated block heading.
const DefaultLanguage = "GTA3script"

// CollectorName is the registration name of the built-in collector.
const CollectorName = "grammar"

// ErrInvalidGrammar is matched by every *BlockError.
var ErrInvalidGrammar = errors.New("invalid grammar block")

// BlockError reports a malformed grammar block.
type BlockError struct {
	Reason string // "missing semicolon" or "unexpected semicolon"
	Block  string // Block text as it appears in the document
}

func (e *BlockError) Error() string {
	return "invalid grammar block: " + e.Reason
}

// Is reports whether target is ErrInvalidGrammar.
func (e *BlockError) Is(target error) bool { return target == ErrInvalidGrammar }

// Validate checks that every production opened by ":=" is closed by ";"
// before the next one starts and before the block ends.
func Validate(block string) error {
	open := false
	for i := 0; i < len(block); i++ {
		switch {
		case block[i] == ':' && i+1 < len(block) && block[i+1] == '=':
			if open {
				return &BlockError{Reason: "missing semicolon", Block: block}
			}
			open = true
		case block[i] == ';':
			if !open {
				return &BlockError{Reason: "unexpected semicolon", Block: block}
			}
			open = false
		}
	}
	if open {
		return &BlockError{Reason: "missing semicolon", Block: block}
	}
	return nil
}

// IsGrammarBlock reports whether block holds productions that should be
// collected. Blocks headed by an informative comment are excluded.
func IsGrammarBlock(block string) bool {
	first, _, _ := strings.Cut(block, "\n")
	if strings.HasPrefix(first, "#") && strings.Contains(first, "informative") {
		return false
	}
	return strings.Contains(block, ":=")
}

// isFence reports whether line opens or closes a fenced code block.
func isFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

// scanBlocks returns the bodies of all fenced code blocks in lines, each line
// terminated by a newline. An unterminated final block is ignored.
func scanBlocks(lines []string, trimRight bool) []string {
	var blocks []string
	var cur strings.Builder
	inBlock := false
	for _, line := range lines {
		if isFence(line) {
			if inBlock {
				blocks = append(blocks, cur.String())
			}
			inBlock = !inBlock
			cur.Reset()
			continue
		}
		if inBlock {
			if trimRight {
				line = strings.TrimRight(line, " \t\r")
			}
			cur.WriteString(line)
			cur.WriteByte('\n')
		}
	}
	return blocks
}

// readLines reads src into lines without their terminators.
func readLines(src io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return lines, nil
}

// Collector gathers grammar blocks and substitutes them at Marker.
type Collector struct {
	language string
}

// NewCollector creates a collector whose generated block is titled after
// language (DefaultLanguage when empty).
func NewCollector(language string) *Collector {
	if language == "" {
		language = DefaultLanguage
	}
	return &Collector{language: language}
}

// Name implements the preprocessor hook contract.
func (c *Collector) Name() string { return CollectorName }

// Heading returns the comment line that opens the generated block.
func (c *Collector) Heading() string {
	return "# The " + c.language + " Grammar (informative)"
}

// Process validates every grammar block of the document and replaces each
// marker line with the collected grammar. Blocks after the marker are
// included as well. An invalid block aborts with a *BlockError.
func (c *Collector) Process(ctx context.Context, src io.Reader) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, err := readLines(src)
	if err != nil {
		return nil, err
	}

	var grammar []string
	for _, block := range scanBlocks(lines, false) {
		if !IsGrammarBlock(block) {
			continue
		}
		if err := Validate(block); err != nil {
			return nil, err
		}
		grammar = append(grammar, block)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !strings.HasPrefix(line, Marker) {
			out = append(out, line)
			continue
		}
		out = append(out, "```", c.Heading(), "")
		body := strings.Join(grammar, "\n")
		if body != "" {
			out = append(out, strings.Split(strings.TrimSuffix(body, "\n"), "\n")...)
		}
		out = append(out, "```")
	}
	return out, nil
}

// Extract writes every valid grammar block of the Markdown document in src
// to w, each followed by a blank line. Trailing whitespace is trimmed and
// the lexical grammar block (a block whose heading names it) is skipped.
func Extract(src io.Reader, w io.Writer) error {
	lines, err := readLines(src)
	if err != nil {
		return err
	}

	for _, block := range scanBlocks(lines, true) {
		if !strings.Contains(block, ":=") {
			continue
		}
		if err := Validate(block); err != nil {
			return err
		}
		if strings.HasPrefix(block, "#") && strings.Contains(block, "Lexical Grammar") {
			continue
		}
		if _, err := io.WriteString(w, block+"\n"); err != nil {
			return fmt.Errorf("writing grammar: %w", err)
		}
	}
	return nil
}
