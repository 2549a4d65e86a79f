// Package slug derives C-safe model identifiers from free-form model names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Make converts s into a slug.
//
// Without allowUnicode the result only contains [a-z0-9_-]: characters are decomposed
// (NFKD) and anything left outside ASCII is dropped, so "Crème" becomes "creme". With
// allowUnicode the text is NFKC-normalized and non-ASCII letters are kept.
//
// In both modes the text is lowercased, everything except letters, digits, underscores,
// whitespace and hyphens is removed, each run of whitespace and hyphens becomes a
// single hyphen, and leading or trailing hyphens and underscores are trimmed.
//
// Make is idempotent: Make(Make(s, u), u) == Make(s, u).
func Make(s string, allowUnicode bool) string {
	if allowUnicode {
		s = norm.NFKC.String(s)
	} else {
		s, _, _ = transform.String(asciiFold, s)
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		switch {
		case r == '-' || unicode.IsSpace(r):
			dash = true
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			if dash {
				b.WriteByte('-')
				dash = false
			}
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "-_")
}
