package text

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// ZeroWidthSpace stands in for the character after the caret when the
// caret sits at the end of the text.
const ZeroWidthSpace = "\u200b"

// Graphemes splits s into extended grapheme clusters.
func Graphemes(s string) []string {
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// FirstGrapheme returns the grapheme cluster at the start of s.
func FirstGrapheme(s string) string {
	if s == "" {
		return ""
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}

// IsZeroWidth reports whether a grapheme cluster advances the pen: format
// characters, line breaks and lone combining marks do not.
func IsZeroWidth(cluster string) bool {
	for _, r := range cluster {
		if !isZeroWidthRune(r) {
			return false
		}
	}
	return true
}

func isZeroWidthRune(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\n', '\r':
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Me)
}
