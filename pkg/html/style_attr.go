package html

import "strings"

// declaration is one "property: value" pair of an inline style attribute.
type declaration struct {
	property string
	value    string
}

// parseStyleAttr splits a style attribute into ordered declarations.
// Later duplicates replace earlier ones in place.
func parseStyleAttr(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.IndexByte(part, ':')
		if idx < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(part[:idx]))
		val := strings.TrimSpace(part[idx+1:])
		replaced := false
		for i := range decls {
			if decls[i].property == prop {
				decls[i].value = val
				replaced = true
				break
			}
		}
		if !replaced {
			decls = append(decls, declaration{property: prop, value: val})
		}
	}
	return decls
}

func serializeStyleAttr(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.property+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

// StyleProperty returns a property from the inline style attribute.
func (n *Node) StyleProperty(property string) (string, bool) {
	attr, _ := n.GetAttribute("style")
	for _, d := range parseStyleAttr(attr) {
		if d.property == property {
			return d.value, true
		}
	}
	return "", false
}

// SetStyleProperty writes a property into the inline style attribute and
// reports whether the attribute changed. Writing an identical value does
// not bump the document version.
func (n *Node) SetStyleProperty(property, value string) bool {
	attr, _ := n.GetAttribute("style")
	decls := parseStyleAttr(attr)
	property = strings.ToLower(property)
	found := false
	for i := range decls {
		if decls[i].property == property {
			if decls[i].value == value {
				return false
			}
			decls[i].value = value
			found = true
			break
		}
	}
	if !found {
		decls = append(decls, declaration{property: property, value: value})
	}
	return n.SetAttribute("style", serializeStyleAttr(decls))
}

// RemoveStyleProperty deletes a property from the inline style attribute.
func (n *Node) RemoveStyleProperty(property string) {
	attr, ok := n.GetAttribute("style")
	if !ok {
		return
	}
	decls := parseStyleAttr(attr)
	for i := range decls {
		if decls[i].property == property {
			decls = append(decls[:i], decls[i+1:]...)
			n.SetAttribute("style", serializeStyleAttr(decls))
			return
		}
	}
}
