package html

import (
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node

	form      formState
	listeners map[string][]listener

	// doc is only set on a Document root; mutations below it bump the
	// document version so cached layouts know to recompute.
	doc *Document
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Document struct {
	Root        *Node
	Stylesheets []string // CSS from <style> tags
	Scripts     []string // JavaScript from <script> tags

	version uint64
}

func NewDocument() *Document {
	doc := &Document{
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
	doc.Root = &Node{
		Type:     ElementNode,
		TagName:  "document",
		Children: make([]*Node, 0),
		doc:      doc,
	}
	return doc
}

// Version increases on every mutation of a node attached to the document.
func (d *Document) Version() uint64 {
	return d.version
}

// Body returns the <body> element, creating one under <html> (or the root)
// when the markup did not contain it.
func (d *Document) Body() *Node {
	if body := d.Root.FirstByTag("body"); body != nil {
		return body
	}
	parent := d.Root
	if h := d.Root.FirstByTag("html"); h != nil {
		parent = h
	}
	body := NewElement("body")
	// Move any loose content under the new body so it keeps flowing.
	loose := make([]*Node, 0, len(parent.Children))
	for _, child := range parent.Children {
		if child.Type == ElementNode && (child.TagName == "head" || child.TagName == "html") {
			continue
		}
		loose = append(loose, child)
	}
	for _, child := range loose {
		body.AddChild(child)
	}
	parent.AddChild(body)
	return body
}

// GetElementByID walks the document and returns the first element with the id.
func (d *Document) GetElementByID(id string) *Node {
	return getElementByID(d.Root, id)
}

func getElementByID(node *Node, id string) *Node {
	if node.Type == ElementNode {
		if val, ok := node.Attributes["id"]; ok && val == id {
			return node
		}
	}
	for _, child := range node.Children {
		if found := getElementByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string),
		Children:   make([]*Node, 0),
	}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// SetAttribute sets an attribute and reports whether the value changed.
func (n *Node) SetAttribute(name, value string) bool {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	if old, ok := n.Attributes[name]; ok && old == value {
		return false
	}
	n.Attributes[name] = value
	n.touch()
	return true
}

func (n *Node) RemoveAttribute(name string) {
	if _, ok := n.Attributes[name]; !ok {
		return
	}
	delete(n.Attributes, name)
	n.touch()
}

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// AddChild adds a child node and sets up the parent relationship.
// A child that already has a parent is moved.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	n.touch()
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(NewText(text))
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			n.touch()
			return child
		}
	}
	return nil
}

// InsertBefore inserts newChild before refChild in this node's children.
// If refChild is nil or not a child, newChild is appended.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}
	for i, c := range n.Children {
		if c == refChild {
			n.Children = append(n.Children, nil)
			copy(n.Children[i+1:], n.Children[i:])
			n.Children[i] = newChild
			newChild.Parent = n
			n.touch()
			return newChild
		}
	}
	n.AddChild(newChild)
	return newChild
}

// IndexInParent returns the position of n among its siblings, or -1.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// OwnerDocument returns the document the node is attached to, or nil
// when the node is not connected.
func (n *Node) OwnerDocument() *Document {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	return root.doc
}

// IsConnected reports whether the node is attached to a document.
func (n *Node) IsConnected() bool {
	return n.OwnerDocument() != nil
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.Type == TextNode {
		if n.Text != text {
			n.Text = text
			n.touch()
		}
		return
	}
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = n.Children[:0]
	if text != "" {
		n.AddChild(NewText(text))
		return
	}
	n.touch()
}

// FirstByTag returns the first descendant element with the tag name.
func (n *Node) FirstByTag(tag string) *Node {
	for _, child := range n.Children {
		if child.Type != ElementNode {
			continue
		}
		if child.TagName == tag {
			return child
		}
		if found := child.FirstByTag(tag); found != nil {
			return found
		}
	}
	return nil
}

// ElementsByTagName collects all descendant elements with the tag name.
func (n *Node) ElementsByTagName(tag string) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Type != ElementNode {
			continue
		}
		if child.TagName == tag {
			result = append(result, child)
		}
		result = append(result, child.ElementsByTagName(tag)...)
	}
	return result
}

// HasClass reports whether the class attribute lists cls.
func (n *Node) HasClass(cls string) bool {
	classes, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == cls {
			return true
		}
	}
	return false
}

func (n *Node) touch() {
	if doc := n.OwnerDocument(); doc != nil {
		doc.version++
	}
}
