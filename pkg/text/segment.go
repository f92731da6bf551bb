package text

import (
	"strings"

	"caretfloat/pkg/css"
)

type PieceKind int

const (
	Word PieceKind = iota
	Space
	Newline
)

// Piece is a unit of inline content: a word, a run of spaces or a forced
// line break.
type Piece struct {
	Kind PieceKind
	Text string
}

const tabStop = "        "

// Segment splits s into pieces following the white-space mode. Collapsing
// modes fold each whitespace run into a single space; preserving modes keep
// spaces verbatim and turn tabs into eight spaces.
func Segment(s string, ws css.WhiteSpace) []Piece {
	pieces := make([]Piece, 0)
	var word strings.Builder
	var space strings.Builder
	flushWord := func() {
		if word.Len() > 0 {
			pieces = append(pieces, Piece{Kind: Word, Text: word.String()})
			word.Reset()
		}
	}
	flushSpace := func() {
		if space.Len() > 0 {
			text := space.String()
			if !ws.PreservesSpaces() {
				text = " "
			}
			pieces = append(pieces, Piece{Kind: Space, Text: text})
			space.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '\n' && ws.PreservesNewlines():
			flushWord()
			flushSpace()
			pieces = append(pieces, Piece{Kind: Newline, Text: "\n"})
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flushWord()
			if r == '\t' && ws.PreservesSpaces() {
				space.WriteString(tabStop)
			} else if r == '\r' {
				continue
			} else {
				space.WriteRune(' ')
			}
		default:
			flushSpace()
			word.WriteRune(r)
		}
	}
	flushWord()
	flushSpace()
	return pieces
}

// BreakWord splits a word into chunks no wider than maxWidth, breaking
// between graphemes. Every chunk holds at least one grapheme.
func BreakWord(m Measurer, f Font, letterSpacing float64, word string, maxWidth float64) []string {
	chunks := make([]string, 0)
	var cur strings.Builder
	curWidth := 0.0
	for _, g := range Graphemes(word) {
		gw := Width(m, f, g, letterSpacing)
		if cur.Len() > 0 && curWidth+gw > maxWidth {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteString(g)
		curWidth += gw
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
