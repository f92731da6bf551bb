package css

import (
	"fmt"
	"strings"
)

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// Rule is a selector list with its declarations.
type Rule struct {
	Selectors    []Selector
	Declarations map[string]string // property -> value, shorthands expanded
}

// ParseStylesheet parses CSS stylesheet content into rules. Malformed rules
// and at-rules are skipped.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{Rules: make([]Rule, 0)}
	css = strings.TrimSpace(stripComments(css))
	if css == "" {
		return stylesheet, nil
	}
	for _, ruleStr := range splitRules(css) {
		rule, err := parseRule(ruleStr)
		if err != nil {
			continue
		}
		stylesheet.Rules = append(stylesheet.Rules, rule)
	}
	return stylesheet, nil
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into top-level "prelude { body }" chunks.
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0
	for i, ch := range css {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if ruleStr := strings.TrimSpace(css[start : i+1]); ruleStr != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
			if depth < 0 {
				depth = 0
				start = i + 1
			}
		}
	}
	return rules
}

func parseRule(ruleStr string) (Rule, error) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		return Rule{}, fmt.Errorf("no opening brace found")
	}
	prelude := strings.TrimSpace(ruleStr[:bracePos])
	if prelude == "" || strings.HasPrefix(prelude, "@") {
		return Rule{}, fmt.Errorf("unsupported rule %q", prelude)
	}
	selectors, err := ParseSelectorGroup(prelude)
	if err != nil {
		return Rule{}, err
	}
	declEnd := strings.LastIndex(ruleStr, "}")
	if declEnd < bracePos {
		declEnd = len(ruleStr)
	}
	return Rule{
		Selectors:    selectors,
		Declarations: ParseInlineStyle(ruleStr[bracePos+1 : declEnd]).Properties,
	}, nil
}
