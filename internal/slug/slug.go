// Package slug derives link anchors and file name stems from heading text.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Anchor keeps letters, numbers, spaces, '-' and '_' from heading, lowercases
// the result and replaces spaces with '-'. "2.1 Lexical Grammar" becomes
// "21-lexical-grammar".
func Anchor(heading string) string {
	var b strings.Builder
	b.Grow(len(heading))
	for _, r := range heading {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	// Caser values are not safe for concurrent use.
	lower := cases.Lower(language.Und).String(b.String())
	return strings.ReplaceAll(lower, " ", "-")
}
