package vdom

// Node is an opaque handle to a host DOM node. Only the DOM facade knows
// its concrete type.
type Node = any

// Mountable is the slice of a component instance the patcher needs: the
// host node its rendered tree is bound to.
type Mountable interface {
	RootNode() Node
}

// Hooks are per-vnode user hooks, invoked by the patcher alongside module
// hooks. Component vnodes carry init/prepatch/insert/destroy.
type Hooks struct {
	Init      func(vnode *VNode)
	Create    func(empty, vnode *VNode)
	Prepatch  func(oldVnode, vnode *VNode)
	Insert    func(vnode *VNode)
	Update    func(oldVnode, vnode *VNode)
	PostPatch func(oldVnode, vnode *VNode)
	Destroy   func(vnode *VNode)
	Remove    func(vnode *VNode, done func())
}

// VNodeData carries everything about a vnode besides tag, children and
// text. Attribute-level concerns (class, style, listeners) are opaque to
// the core; injected modules interpret them.
type VNodeData struct {
	Key        any
	Attrs      map[string]any
	Props      map[string]any
	Class      any
	Style      any
	On         map[string]any
	Ref        string
	RefInFor   bool
	Is         string
	Slot       string
	StyleScope string
	KeepAlive  bool
	Hook       *Hooks

	// PendingInsert holds a child component's collected insert hooks
	// until the enclosing tree is itself inserted.
	PendingInsert []*VNode
}

// ComponentOptions is the payload of a component vnode: enough to
// instantiate the child when the patcher hits it.
type ComponentOptions struct {
	Options   any
	PropsData map[string]any
	Listeners map[string]any
	Tag       string
	Children  []*VNode
}

// VNode describes a desired host-DOM state.
type VNode struct {
	Tag      string
	Data     *VNodeData
	Children []*VNode
	Text     string
	Elm      Node
	NS       string
	Key      any

	ComponentOptions  *ComponentOptions
	ComponentInstance Mountable
	// Context is the instance whose render produced this vnode.
	Context any
	// Parent is the placeholder vnode in the enclosing component.
	Parent *VNode

	IsComment          bool
	IsStatic           bool
	IsAsyncPlaceholder bool
	AsyncFactory       any
}

// IsNonObservable marks vnodes as never observed by the reactivity layer.
func (v *VNode) IsNonObservable() bool { return true }

func (v *VNode) IsTextNode() bool {
	return v != nil && v.Tag == "" && !v.IsComment && v.ComponentOptions == nil
}

func NewVNode(tag string, data *VNodeData, children []*VNode, text string) *VNode {
	vn := &VNode{
		Tag:      tag,
		Data:     data,
		Children: children,
		Text:     text,
	}
	if data != nil {
		vn.Key = data.Key
	}
	return vn
}

// EmptyVNode returns a comment vnode, the canonical "nothing rendered"
// placeholder.
func EmptyVNode() *VNode {
	return &VNode{IsComment: true}
}

func TextVNode(text string) *VNode {
	return &VNode{Text: text}
}

// CloneVNode shallow-clones a vnode. Cloned static trees keep the same
// children slice; mutating the clone's metadata never touches the
// original.
func CloneVNode(v *VNode) *VNode {
	cloned := *v
	if v.Children != nil {
		children := make([]*VNode, len(v.Children))
		copy(children, v.Children)
		cloned.Children = children
	}
	return &cloned
}

// SameVNode is diff-level equivalence: patchable in place rather than
// replaced. An async placeholder never matches anything, so a resolved
// component always fully replaces its placeholder.
func SameVNode(a, b *VNode) bool {
	if a.IsAsyncPlaceholder || b.IsAsyncPlaceholder {
		return false
	}
	return looseKeyEqual(a.Key, b.Key) &&
		a.Tag == b.Tag &&
		a.IsComment == b.IsComment &&
		(a.Data != nil) == (b.Data != nil) &&
		sameInputType(a, b)
}

// Inputs whose type changed cannot be patched in place; browsers drop
// state on type flips.
func sameInputType(a, b *VNode) bool {
	if a.Tag != "input" {
		return true
	}
	return inputType(a) == inputType(b)
}

func inputType(v *VNode) string {
	if v.Data == nil || v.Data.Attrs == nil {
		return ""
	}
	typ, _ := v.Data.Attrs["type"].(string)
	return typ
}

func looseKeyEqual(a, b any) bool {
	return a == b
}
