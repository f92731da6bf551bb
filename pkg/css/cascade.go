package css

import (
	"sort"
	"strings"

	"caretfloat/pkg/html"
)

// inheritedProperties flow from parent to child unless overridden.
var inheritedProperties = []string{
	"color", "font-family", "font-size", "font-style", "font-variant",
	"font-weight", "font-stretch", "line-height", "letter-spacing",
	"text-align", "white-space", "visibility", "overflow-wrap", "word-wrap",
	"word-break",
}

// userAgentStyles are the browser defaults this engine applies per tag.
var userAgentStyles = map[string]string{
	"body":     "margin: 8px; font-family: sans-serif; font-size: 16px",
	"p":        "margin: 16px 0",
	"h1":       "margin: 21px 0; font-size: 32px; font-weight: bold",
	"h2":       "margin: 20px 0; font-size: 24px; font-weight: bold",
	"span":     "display: inline",
	"label":    "display: inline",
	"a":        "display: inline; color: #0645ad",
	"b":        "display: inline; font-weight: bold",
	"strong":   "display: inline; font-weight: bold",
	"i":        "display: inline; font-style: italic",
	"em":       "display: inline; font-style: italic",
	"code":     "display: inline; font-family: monospace",
	"br":       "display: inline",
	"input":    "display: inline-block; box-sizing: content-box; width: 180px; padding: 2px 4px; border: 1px solid #767676; font-family: sans-serif; font-size: 14px; font-weight: normal; font-style: normal; line-height: normal; letter-spacing: normal; text-align: left; white-space: pre; background-color: white; color: black",
	"textarea": "display: inline-block; box-sizing: content-box; width: 240px; padding: 2px 4px; border: 1px solid #767676; font-family: monospace; font-size: 14px; font-weight: normal; font-style: normal; line-height: normal; letter-spacing: normal; text-align: left; white-space: pre-wrap; overflow-wrap: break-word; overflow: auto; background-color: white; color: black",
	"button":   "display: inline-block; padding: 4px 10px; border: 1px solid #767676; background-color: #efefef; font-family: sans-serif; font-size: 14px; text-align: center; white-space: nowrap",
	"head":     "display: none",
	"title":    "display: none",
	"meta":     "display: none",
	"link":     "display: none",
}

var parsedUserAgentStyles = func() map[string]*Style {
	m := make(map[string]*Style, len(userAgentStyles))
	for tag, decls := range userAgentStyles {
		m[tag] = ParseInlineStyle(decls)
	}
	return m
}()

// ComputeStyle computes the final style for a node: inherited values,
// user agent defaults, matching stylesheet rules in specificity order, then
// the inline style attribute.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet, parentStyle *Style) *Style {
	finalStyle := NewStyle()

	if parentStyle != nil {
		for _, prop := range inheritedProperties {
			if v, ok := parentStyle.Get(prop); ok {
				finalStyle.Set(prop, v)
			}
		}
	}

	if node.Type != html.ElementNode {
		return finalStyle
	}

	if ua, ok := parsedUserAgentStyles[node.TagName]; ok {
		for property, value := range ua.Properties {
			finalStyle.Set(property, value)
		}
	}

	matches := make([]matchedRule, 0)
	order := 0
	for _, stylesheet := range stylesheets {
		for _, rule := range stylesheet.Rules {
			if spec, ok := rule.Matches(node); ok {
				matches = append(matches, matchedRule{rule: rule, specificity: spec, order: order})
			}
			order++
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].specificity != matches[j].specificity {
			return matches[i].specificity < matches[j].specificity
		}
		return matches[i].order < matches[j].order
	})
	for _, m := range matches {
		for property, value := range m.rule.Declarations {
			finalStyle.Set(property, value)
		}
	}

	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			finalStyle.Set(property, value)
		}
	}

	resolveFontSize(finalStyle, parentStyle)
	for property, value := range finalStyle.Properties {
		if value == "inherit" {
			if parentStyle != nil {
				if pv, ok := parentStyle.Get(property); ok {
					finalStyle.Set(property, pv)
					continue
				}
			}
			delete(finalStyle.Properties, property)
		}
	}
	return finalStyle
}

type matchedRule struct {
	rule        Rule
	specificity int
	order       int
}

// resolveFontSize turns relative font sizes into pixels against the parent.
func resolveFontSize(style, parent *Style) {
	v, ok := style.Get("font-size")
	if !ok {
		return
	}
	base := DefaultFontSize
	if parent != nil {
		base = parent.GetFontSize()
	}
	v = strings.TrimSpace(v)
	var px float64
	switch {
	case strings.HasSuffix(v, "rem"):
		n, ok := ParseLength(strings.TrimSuffix(v, "rem"))
		if !ok {
			return
		}
		px = n * DefaultFontSize
	case strings.HasSuffix(v, "em"):
		n, ok := ParseLength(strings.TrimSuffix(v, "em"))
		if !ok {
			return
		}
		px = n * base
	case strings.HasSuffix(v, "%"):
		n, ok := ParseLength(strings.TrimSuffix(v, "%"))
		if !ok {
			return
		}
		px = n / 100 * base
	default:
		return
	}
	style.Set("font-size", FormatLength(px))
}

// ApplyStylesToDocument computes styles for every element and text node.
func ApplyStylesToDocument(doc *html.Document) map[*html.Node]*Style {
	styles := make(map[*html.Node]*Style)
	stylesheets := ParseStylesheets(doc.Stylesheets)
	applyStylesToNode(doc.Root, stylesheets, styles, nil)
	return styles
}

// ParseStylesheets parses each <style> block, skipping ones that fail.
func ParseStylesheets(sources []string) []*Stylesheet {
	stylesheets := make([]*Stylesheet, 0, len(sources))
	for _, cssText := range sources {
		if stylesheet, err := ParseStylesheet(cssText); err == nil {
			stylesheets = append(stylesheets, stylesheet)
		}
	}
	return stylesheets
}

func applyStylesToNode(node *html.Node, stylesheets []*Stylesheet, styles map[*html.Node]*Style, parentStyle *Style) {
	style := parentStyle
	if node.TagName != "document" || node.Type == html.TextNode {
		style = ComputeStyle(node, stylesheets, parentStyle)
		styles[node] = style
	}
	for _, child := range node.Children {
		applyStylesToNode(child, stylesheets, styles, style)
	}
}
