package html

import (
	"fmt"
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Text        string
	SelfClosing bool // True for tags ending with />
}

// rawTextElements keep their content verbatim up to the matching end tag.
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
}

type Tokenizer struct {
	input string
	pos   int

	// rawEnd is set after a raw text start tag; the next token is its
	// unparsed content.
	rawEnd string
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{input: html}
}

func (t *Tokenizer) NextToken() (Token, error) {
	if t.rawEnd != "" {
		tag := t.rawEnd
		t.rawEnd = ""
		content := t.readRawUntil(tag)
		if tag == "textarea" {
			content = gohtml.UnescapeString(strings.TrimPrefix(content, "\n"))
		}
		return Token{Type: TokenText, Text: content, TagName: tag}, nil
	}
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}, nil
	}
	// Whitespace before text is significant for inline flow, so only tags
	// get it skipped.
	if t.input[t.pos] == '<' {
		return t.readTag()
	}
	return t.readText()
}

func (t *Tokenizer) readTag() (Token, error) {
	t.pos++

	switch {
	case strings.HasPrefix(t.input[t.pos:], "!--"):
		end := strings.Index(t.input[t.pos+3:], "-->")
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += 3 + end + 3
		}
		return t.NextToken()
	case strings.HasPrefix(t.input[t.pos:], "?"), strings.HasPrefix(t.input[t.pos:], "!"):
		// Processing instructions and <!DOCTYPE ...>.
		if err := t.skipTo('>'); err != nil {
			return Token{}, err
		}
		t.pos++
		return t.NextToken()
	}

	isEndTag := false
	if t.pos < len(t.input) && t.input[t.pos] == '/' {
		isEndTag = true
		t.pos++
	}
	tagName := t.readName(isTagNameChar)
	if tagName == "" {
		return Token{}, fmt.Errorf("expected tag name at position %d", t.pos)
	}
	if isEndTag {
		if err := t.skipTo('>'); err != nil {
			return Token{}, err
		}
		t.pos++
		return Token{Type: TokenEndTag, TagName: tagName}, nil
	}

	tok := Token{Type: TokenStartTag, TagName: tagName, Attributes: make(map[string]string)}
	for {
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			return Token{}, fmt.Errorf("unexpected EOF in <%s>", tagName)
		}
		c := t.input[t.pos]
		if c == '>' {
			t.pos++
			break
		}
		if c == '/' {
			t.pos++
			t.skipWhitespace()
			if t.pos < len(t.input) && t.input[t.pos] == '>' {
				t.pos++
				tok.SelfClosing = true
				return tok, nil
			}
			continue
		}
		name, value, err := t.readAttribute()
		if err != nil {
			return Token{}, err
		}
		tok.Attributes[name] = value
	}
	if rawTextElements[tagName] {
		t.rawEnd = tagName
	}
	return tok, nil
}

func (t *Tokenizer) readName(accept func(byte) bool) string {
	start := t.pos
	for t.pos < len(t.input) && accept(t.input[t.pos]) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

func (t *Tokenizer) readAttribute() (string, string, error) {
	name := t.readName(isAttributeNameChar)
	if name == "" {
		return "", "", fmt.Errorf("expected attribute name at position %d", t.pos)
	}
	t.skipWhitespace()
	if t.pos >= len(t.input) || t.input[t.pos] != '=' {
		return name, "", nil
	}
	t.pos++
	t.skipWhitespace()
	if t.pos >= len(t.input) {
		return "", "", fmt.Errorf("expected value for attribute %q", name)
	}
	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		t.pos++
		end := strings.IndexByte(t.input[t.pos:], quote)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated value for attribute %q", name)
		}
		value := t.input[t.pos : t.pos+end]
		t.pos += end + 1
		return name, gohtml.UnescapeString(value), nil
	}
	start := t.pos
	for t.pos < len(t.input) && !unicode.IsSpace(rune(t.input[t.pos])) && t.input[t.pos] != '>' {
		t.pos++
	}
	return name, gohtml.UnescapeString(t.input[start:t.pos]), nil
}

func (t *Tokenizer) readText() (Token, error) {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '<' {
		t.pos++
	}
	raw := t.input[start:t.pos]
	// Indentation between tags carries no content.
	if strings.TrimSpace(raw) == "" {
		return t.NextToken()
	}
	return Token{Type: TokenText, Text: gohtml.UnescapeString(normalizeWhitespace(raw))}, nil
}

// normalizeWhitespace collapses runs of whitespace to a single space while
// keeping one space at each boundary, so "text <b>word</b> more" keeps its
// word gaps.
func normalizeWhitespace(s string) string {
	hasLeading := unicode.IsSpace(rune(s[0]))
	hasTrailing := unicode.IsSpace(rune(s[len(s)-1]))
	result := strings.Join(strings.Fields(s), " ")
	if hasLeading {
		result = " " + result
	}
	if hasTrailing {
		result += " "
	}
	return result
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

func (t *Tokenizer) skipTo(target byte) error {
	idx := strings.IndexByte(t.input[t.pos:], target)
	if idx < 0 {
		t.pos = len(t.input)
		return fmt.Errorf("expected '%c' but reached EOF", target)
	}
	t.pos += idx
	return nil
}

// readRawUntil reads raw content up to the closing tag (case-insensitive)
// and consumes the closing tag.
func (t *Tokenizer) readRawUntil(endTag string) string {
	needle := "</" + endTag
	lower := strings.ToLower(t.input[t.pos:])
	idx := strings.Index(lower, needle)
	if idx < 0 {
		content := t.input[t.pos:]
		t.pos = len(t.input)
		return content
	}
	content := t.input[t.pos : t.pos+idx]
	t.pos += idx
	if err := t.skipTo('>'); err == nil {
		t.pos++
	}
	return content
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return isTagNameChar(c) || c == ':' || c == '.'
}
