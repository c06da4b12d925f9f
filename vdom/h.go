package vdom

import (
	"fmt"
	"strconv"
)

// H builds an element vnode. Children may be vnodes, strings, numbers,
// nested slices of either, or nil; they are deep-normalized the way
// user-written render functions need (iteration helpers produce nested
// slices, adjacent text is coalesced).
//
// A data carrying Is reroutes the tag, matching <component is="...">.
func H(tag string, data *VNodeData, children ...any) *VNode {
	if data != nil && data.Is != "" {
		tag = data.Is
	}
	if tag == "" {
		return EmptyVNode()
	}
	vn := NewVNode(tag, data, NormalizeChildren(children), "")
	switch tag {
	case "svg":
		applyNS(vn, "http://www.w3.org/2000/svg")
	case "math":
		applyNS(vn, "http://www.w3.org/1998/Math/MathML")
	}
	return vn
}

func applyNS(vn *VNode, ns string) {
	vn.NS = ns
	for _, child := range vn.Children {
		if child.Tag != "" && child.NS == "" && child.Tag != "foreignObject" {
			applyNS(child, ns)
		}
	}
}

// NormalizeChildren recursively flattens nested child slices into a flat
// vnode list, converting primitives to text vnodes and merging adjacent
// text nodes.
func NormalizeChildren(children []any) []*VNode {
	if len(children) == 0 {
		return nil
	}
	out := make([]*VNode, 0, len(children))
	for i, raw := range children {
		nested := normalizeChild(raw, strconv.Itoa(i))
		for _, child := range nested {
			if child == nil {
				continue
			}
			if child.IsTextNode() && lastIsText(out) {
				last := out[len(out)-1]
				out[len(out)-1] = TextVNode(last.Text + child.Text)
				continue
			}
			out = append(out, child)
		}
	}
	return out
}

func normalizeChild(raw any, nestedIndex string) []*VNode {
	switch c := raw.(type) {
	case nil:
		return nil
	case *VNode:
		return []*VNode{c}
	case []*VNode:
		out := make([]*VNode, 0, len(c))
		for i, child := range c {
			out = append(out, defaultNestedKey(normalizeChild(child, nestedKey(nestedIndex, i)), nestedKey(nestedIndex, i))...)
		}
		return out
	case []any:
		out := make([]*VNode, 0, len(c))
		for i, child := range c {
			out = append(out, defaultNestedKey(normalizeChild(child, nestedKey(nestedIndex, i)), nestedKey(nestedIndex, i))...)
		}
		return out
	case string:
		return []*VNode{TextVNode(c)}
	case bool:
		return nil
	default:
		return []*VNode{TextVNode(fmt.Sprint(c))}
	}
}

// children generated by iteration get a default key derived from their
// position so reorders inside the nested list still diff by identity
func defaultNestedKey(nodes []*VNode, key string) []*VNode {
	for _, n := range nodes {
		if n != nil && n.Tag != "" && n.Key == nil {
			n.Key = "__vlist" + key + "__"
		}
	}
	return nodes
}

func nestedKey(prefix string, i int) string {
	return prefix + "_" + strconv.Itoa(i)
}

func lastIsText(out []*VNode) bool {
	return len(out) > 0 && out[len(out)-1].IsTextNode()
}

// SimpleNormalizeChildren flattens one level only, for render output that
// is known to be nearly flat already (compiled templates emitting
// component children).
func SimpleNormalizeChildren(children []any) []*VNode {
	out := make([]*VNode, 0, len(children))
	for _, raw := range children {
		switch c := raw.(type) {
		case *VNode:
			out = append(out, c)
		case []*VNode:
			out = append(out, c...)
		case string:
			out = append(out, TextVNode(c))
		}
	}
	return out
}
