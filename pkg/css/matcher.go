package css

import (
	"fmt"
	"strings"

	"caretfloat/pkg/html"
)

// SelectorPart is one compound selector: tag, #id and .classes together.
type SelectorPart struct {
	Element string
	ID      string
	Classes []string
}

// Selector is a chain of compound selectors joined by descendant (" ")
// or child (">") combinators.
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []byte // len(Parts)-1 entries: ' ' or '>'
	Specificity int
}

// ParseSelector parses a single complex selector such as "form > .row input#name".
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	if raw == "" {
		return sel, fmt.Errorf("empty selector")
	}
	pending := byte(0)
	for _, tok := range strings.Fields(strings.ReplaceAll(raw, ">", " > ")) {
		if tok == ">" {
			pending = '>'
			continue
		}
		part, err := parseCompound(tok)
		if err != nil {
			return sel, err
		}
		if len(sel.Parts) > 0 {
			if pending == 0 {
				pending = ' '
			}
			sel.Combinators = append(sel.Combinators, pending)
		}
		pending = 0
		sel.Parts = append(sel.Parts, part)
		sel.Specificity += part.specificity()
	}
	if len(sel.Parts) == 0 || pending != 0 {
		return sel, fmt.Errorf("malformed selector %q", raw)
	}
	return sel, nil
}

// ParseSelectorGroup parses a comma-separated selector list.
func ParseSelectorGroup(raw string) ([]Selector, error) {
	var group []Selector
	for _, part := range strings.Split(raw, ",") {
		sel, err := ParseSelector(part)
		if err != nil {
			return nil, err
		}
		group = append(group, sel)
	}
	return group, nil
}

func parseCompound(tok string) (SelectorPart, error) {
	var part SelectorPart
	i := 0
	readIdent := func() string {
		start := i
		for i < len(tok) && tok[i] != '#' && tok[i] != '.' {
			i++
		}
		return tok[start:i]
	}
	if tok[0] != '#' && tok[0] != '.' {
		part.Element = strings.ToLower(readIdent())
	}
	for i < len(tok) {
		kind := tok[i]
		i++
		name := readIdent()
		if name == "" {
			return part, fmt.Errorf("malformed compound selector %q", tok)
		}
		if strings.ContainsAny(name, ":[") {
			return part, fmt.Errorf("unsupported selector %q", tok)
		}
		if kind == '#' {
			part.ID = name
		} else {
			part.Classes = append(part.Classes, name)
		}
	}
	if strings.ContainsAny(part.Element, ":[") {
		return part, fmt.Errorf("unsupported selector %q", tok)
	}
	return part, nil
}

func (p SelectorPart) specificity() int {
	s := 0
	if p.ID != "" {
		s += 100
	}
	s += 10 * len(p.Classes)
	if p.Element != "" && p.Element != "*" {
		s++
	}
	return s
}

// Matches returns the specificity of the first selector in the rule's list
// that matches node.
func (r Rule) Matches(node *html.Node) (int, bool) {
	best, found := 0, false
	for _, sel := range r.Selectors {
		if MatchesSelector(node, sel) && (!found || sel.Specificity > best) {
			best, found = sel.Specificity, true
		}
	}
	return best, found
}

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

// matchesFrom matches Parts[idx] against node, then walks left through the
// combinators.
func matchesFrom(node *html.Node, selector Selector, idx int) bool {
	if !matchesPart(node, selector.Parts[idx]) {
		return false
	}
	if idx == 0 {
		return true
	}
	switch selector.Combinators[idx-1] {
	case '>':
		parent := node.Parent
		return parent != nil && parent.Type == html.ElementNode && parent.TagName != "document" &&
			matchesFrom(parent, selector, idx-1)
	default:
		for anc := node.Parent; anc != nil; anc = anc.Parent {
			if anc.Type == html.ElementNode && anc.TagName != "document" && matchesFrom(anc, selector, idx-1) {
				return true
			}
		}
		return false
	}
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.ID() != part.ID {
		return false
	}
	for _, cls := range part.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	return true
}
