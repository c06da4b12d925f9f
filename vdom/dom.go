package vdom

// DOM is the injected host facade. The core never touches a real document
// directly; every primitive mutation goes through here.
type DOM interface {
	CreateElement(tag string) Node
	CreateElementNS(ns, tag string) Node
	CreateTextNode(text string) Node
	CreateComment(text string) Node
	InsertBefore(parent, node, ref Node)
	AppendChild(parent, node Node)
	RemoveChild(parent, node Node)
	ParentNode(node Node) Node
	NextSibling(node Node) Node
	TagName(node Node) string
	SetTextContent(node Node, text string)
	SetStyleScope(node Node, id string)
}

// Module hooks into vnode create/update/destroy events for one
// attribute-level concern. All fields are optional.
type Module struct {
	Create   func(emptyVnode, vnode *VNode)
	Activate func(emptyVnode, vnode *VNode)
	Update   func(oldVnode, vnode *VNode)
	Remove   func(vnode *VNode, done func())
	Destroy  func(vnode *VNode)
}
