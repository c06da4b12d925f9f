// Package memdom is an in-memory host DOM backing the vdom facade, used
// by tests and benchmarks in place of a browser document.
package memdom

import (
	"fmt"
	"sort"
	"strings"
)

type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
)

type Node struct {
	Kind       NodeKind
	Tag        string
	Text       string
	Attrs      map[string]string
	StyleScope string
	Parent     *Node
	Children   []*Node
}

func (n *Node) SetAttr(key, val string) {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = val
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// HTML renders the subtree to a string for assertions. Attributes are
// emitted in sorted order so output is stable.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	switch n.Kind {
	case TextNode:
		sb.WriteString(n.Text)
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Text)
		sb.WriteString("-->")
	case ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Tag)
		keys := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, " %s=%q", k, n.Attrs[k])
		}
		sb.WriteByte('>')
		for _, c := range n.Children {
			c.writeHTML(sb)
		}
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteByte('>')
	}
}

// Document implements vdom.DOM and counts primitive operations so diff
// tests can assert how much work a patch did.
type Document struct {
	Creates int
	Inserts int
	Removes int
	// Moves counts insertions of a node that already had a parent.
	Moves     int
	TextSets  int
	ScopeSets int
}

func NewDocument() *Document { return &Document{} }

// ResetCounters zeroes the op counters between scenario steps.
func (d *Document) ResetCounters() {
	*d = Document{}
}

func (d *Document) Body() *Node {
	return &Node{Kind: ElementNode, Tag: "body"}
}

func (d *Document) CreateElement(tag string) any {
	d.Creates++
	return &Node{Kind: ElementNode, Tag: tag}
}

func (d *Document) CreateElementNS(ns, tag string) any {
	d.Creates++
	n := &Node{Kind: ElementNode, Tag: tag}
	n.SetAttr("xmlns", ns)
	return n
}

func (d *Document) CreateTextNode(text string) any {
	d.Creates++
	return &Node{Kind: TextNode, Text: text}
}

func (d *Document) CreateComment(text string) any {
	d.Creates++
	return &Node{Kind: CommentNode, Text: text}
}

func (d *Document) InsertBefore(parent, node, ref any) {
	p := parent.(*Node)
	n := node.(*Node)
	d.detach(n)
	idx := -1
	if r, ok := ref.(*Node); ok && r != nil {
		idx = p.indexOf(r)
	}
	if idx < 0 {
		p.Children = append(p.Children, n)
	} else {
		p.Children = append(p.Children, nil)
		copy(p.Children[idx+1:], p.Children[idx:])
		p.Children[idx] = n
	}
	n.Parent = p
	d.Inserts++
}

func (d *Document) AppendChild(parent, node any) {
	p := parent.(*Node)
	n := node.(*Node)
	d.detach(n)
	p.Children = append(p.Children, n)
	n.Parent = p
	d.Inserts++
}

func (d *Document) RemoveChild(parent, node any) {
	p := parent.(*Node)
	n := node.(*Node)
	if idx := p.indexOf(n); idx >= 0 {
		p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
		n.Parent = nil
		d.Removes++
	}
}

func (d *Document) ParentNode(node any) any {
	n := node.(*Node)
	if n.Parent == nil {
		// a typed nil would not compare equal to untyped nil at the
		// call sites
		return nil
	}
	return n.Parent
}

func (d *Document) NextSibling(node any) any {
	n := node.(*Node)
	if n.Parent == nil {
		return nil
	}
	idx := n.Parent.indexOf(n)
	if idx < 0 || idx+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[idx+1]
}

func (d *Document) TagName(node any) string {
	return node.(*Node).Tag
}

func (d *Document) SetTextContent(node any, text string) {
	n := node.(*Node)
	n.Children = nil
	if n.Kind == TextNode {
		n.Text = text
	} else if text != "" {
		child := &Node{Kind: TextNode, Text: text, Parent: n}
		n.Children = []*Node{child}
	}
	d.TextSets++
}

func (d *Document) SetStyleScope(node any, id string) {
	node.(*Node).StyleScope = id
	d.ScopeSets++
}

func (d *Document) detach(n *Node) {
	if n.Parent != nil {
		d.Moves++
		if idx := n.Parent.indexOf(n); idx >= 0 {
			n.Parent.Children = append(n.Parent.Children[:idx], n.Parent.Children[idx+1:]...)
		}
		n.Parent = nil
	}
}
