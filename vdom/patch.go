package vdom

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// PatchFunc reconciles an old vnode tree against a new one, mutating the
// host DOM, and returns the node bound to the new root. Passing a nil new
// vnode destroys the old tree; passing a nil old vnode is a fresh mount.
type PatchFunc func(oldVnode, newVnode *VNode, removeOnly bool) Node

type patcher struct {
	dom  DOM
	warn func(msg string)

	// per-stage module hook fan-out, precomputed at construction
	create   []func(emptyVnode, vnode *VNode)
	activate []func(emptyVnode, vnode *VNode)
	update   []func(oldVnode, vnode *VNode)
	remove   []func(vnode *VNode, done func())
	destroy  []func(vnode *VNode)
}

var emptyNode = EmptyVNode()

// NewPatcher wires the injected host facade and modules into a patch
// function. Module hooks are fanned out into per-stage slices once, here.
func NewPatcher(dom DOM, modules []Module, warn func(msg string)) PatchFunc {
	if warn == nil {
		warn = func(string) {}
	}
	p := &patcher{dom: dom, warn: warn}
	for _, m := range modules {
		if m.Create != nil {
			p.create = append(p.create, m.Create)
		}
		if m.Activate != nil {
			p.activate = append(p.activate, m.Activate)
		}
		if m.Update != nil {
			p.update = append(p.update, m.Update)
		}
		if m.Remove != nil {
			p.remove = append(p.remove, m.Remove)
		}
		if m.Destroy != nil {
			p.destroy = append(p.destroy, m.Destroy)
		}
	}
	return p.patch
}

// WrapElement adopts a live host node as a synthetic empty vnode so a
// first mount can replace server- or hand-authored markup in place.
func WrapElement(dom DOM, elm Node) *VNode {
	return &VNode{Tag: dom.TagName(elm), Elm: elm}
}

func (p *patcher) patch(oldVnode, newVnode *VNode, removeOnly bool) Node {
	if newVnode == nil {
		if oldVnode != nil {
			p.invokeDestroyHook(oldVnode)
		}
		return nil
	}

	isInitialPatch := false
	insertedVnodeQueue := &[]*VNode{}

	if oldVnode == nil {
		// empty mount, e.g. a child component with nothing to replace
		isInitialPatch = true
		p.createElm(newVnode, insertedVnodeQueue, nil, nil)
	} else if SameVNode(oldVnode, newVnode) {
		p.patchVnode(oldVnode, newVnode, insertedVnodeQueue, removeOnly)
	} else {
		// different root: build the new tree next to the old, then drop
		// the old
		oldElm := oldVnode.Elm
		var parentElm Node
		if oldElm != nil {
			parentElm = p.dom.ParentNode(oldElm)
		}
		var refElm Node
		if oldElm != nil && parentElm != nil {
			refElm = p.dom.NextSibling(oldElm)
		}
		p.createElm(newVnode, insertedVnodeQueue, parentElm, refElm)

		if parentElm != nil {
			p.removeVnodes([]*VNode{oldVnode}, 0, 0)
		} else if oldVnode.Tag != "" {
			p.invokeDestroyHook(oldVnode)
		}
	}

	p.invokeInsertHook(newVnode, insertedVnodeQueue, isInitialPatch)
	return newVnode.Elm
}

func (p *patcher) createElm(vnode *VNode, insertedVnodeQueue *[]*VNode, parentElm, refElm Node) {
	if p.createComponent(vnode, insertedVnodeQueue, parentElm, refElm) {
		return
	}

	switch {
	case vnode.Tag != "":
		if vnode.NS != "" {
			vnode.Elm = p.dom.CreateElementNS(vnode.NS, vnode.Tag)
		} else {
			vnode.Elm = p.dom.CreateElement(vnode.Tag)
		}
		p.setScope(vnode)
		p.createChildren(vnode, insertedVnodeQueue)
		if vnode.Data != nil {
			p.invokeCreateHooks(vnode, insertedVnodeQueue)
		}
		p.insert(parentElm, vnode.Elm, refElm)
	case vnode.IsComment:
		vnode.Elm = p.dom.CreateComment(vnode.Text)
		p.insert(parentElm, vnode.Elm, refElm)
	default:
		vnode.Elm = p.dom.CreateTextNode(vnode.Text)
		p.insert(parentElm, vnode.Elm, refElm)
	}
}

// createComponent lets a component vnode instantiate and mount its child
// through the init hook, then adopts the child's root node.
func (p *patcher) createComponent(vnode *VNode, insertedVnodeQueue *[]*VNode, parentElm, refElm Node) bool {
	if vnode.Data == nil || vnode.Data.Hook == nil || vnode.Data.Hook.Init == nil {
		return false
	}
	vnode.Data.Hook.Init(vnode)
	if vnode.ComponentInstance == nil {
		// async placeholder: init produced no instance yet
		return false
	}
	p.initComponent(vnode, insertedVnodeQueue)
	p.insert(parentElm, vnode.Elm, refElm)
	return true
}

func (p *patcher) initComponent(vnode *VNode, insertedVnodeQueue *[]*VNode) {
	if vnode.Data.PendingInsert != nil {
		*insertedVnodeQueue = append(*insertedVnodeQueue, vnode.Data.PendingInsert...)
		vnode.Data.PendingInsert = nil
	}
	vnode.Elm = vnode.ComponentInstance.RootNode()
	if isPatchable(vnode) {
		p.invokeCreateHooks(vnode, insertedVnodeQueue)
		p.setScope(vnode)
	} else {
		// empty component root: still register the insert hook
		if vnode.Data.Hook.Insert != nil {
			*insertedVnodeQueue = append(*insertedVnodeQueue, vnode)
		}
	}
}

// isPatchable digs through a component chain to the real element the
// modules should operate on.
func isPatchable(vnode *VNode) bool {
	for vnode.ComponentInstance != nil {
		inner, ok := vnode.ComponentInstance.(interface{ RenderedVNode() *VNode })
		if !ok {
			return vnode.Tag != ""
		}
		next := inner.RenderedVNode()
		if next == nil {
			return false
		}
		vnode = next
	}
	return vnode.Tag != ""
}

func (p *patcher) createChildren(vnode *VNode, insertedVnodeQueue *[]*VNode) {
	if len(vnode.Children) > 0 {
		p.checkDuplicateKeys(vnode.Children)
		for _, child := range vnode.Children {
			p.createElm(child, insertedVnodeQueue, vnode.Elm, nil)
		}
	} else if vnode.Text != "" {
		p.dom.AppendChild(vnode.Elm, p.dom.CreateTextNode(vnode.Text))
	}
}

func (p *patcher) invokeCreateHooks(vnode *VNode, insertedVnodeQueue *[]*VNode) {
	for _, create := range p.create {
		create(emptyNode, vnode)
	}
	if hook := vnode.Data.Hook; hook != nil {
		if hook.Create != nil {
			hook.Create(emptyNode, vnode)
		}
		if hook.Insert != nil {
			*insertedVnodeQueue = append(*insertedVnodeQueue, vnode)
		}
	}
}

func (p *patcher) setScope(vnode *VNode) {
	if vnode.Data != nil && vnode.Data.StyleScope != "" {
		p.dom.SetStyleScope(vnode.Elm, vnode.Data.StyleScope)
	}
}

func (p *patcher) insert(parent, elm, ref Node) {
	if parent == nil {
		return
	}
	if ref != nil {
		if p.dom.ParentNode(ref) == parent {
			p.dom.InsertBefore(parent, elm, ref)
		}
	} else {
		p.dom.AppendChild(parent, elm)
	}
}

func (p *patcher) addVnodes(parentElm, refElm Node, vnodes []*VNode, startIdx, endIdx int, insertedVnodeQueue *[]*VNode) {
	for ; startIdx <= endIdx; startIdx++ {
		p.createElm(vnodes[startIdx], insertedVnodeQueue, parentElm, refElm)
	}
}

func (p *patcher) removeVnodes(vnodes []*VNode, startIdx, endIdx int) {
	for ; startIdx <= endIdx; startIdx++ {
		ch := vnodes[startIdx]
		if ch == nil {
			continue
		}
		if ch.Tag != "" || ch.ComponentInstance != nil {
			p.removeAndInvokeRemoveHook(ch)
			p.invokeDestroyHook(ch)
		} else {
			p.removeNode(ch.Elm)
		}
	}
}

func (p *patcher) removeNode(elm Node) {
	if elm == nil {
		return
	}
	parent := p.dom.ParentNode(elm)
	// already detached when a previous hook removed it
	if parent != nil {
		p.dom.RemoveChild(parent, elm)
	}
}

// removeAndInvokeRemoveHook delays the actual node removal until every
// remove hook has called done, so leave transitions can finish first.
func (p *patcher) removeAndInvokeRemoveHook(vnode *VNode) {
	hasUserRemove := vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.Remove != nil
	if vnode.Data == nil || (len(p.remove) == 0 && !hasUserRemove) {
		p.removeNode(vnode.Elm)
		return
	}
	listeners := len(p.remove) + 1
	rm := p.createRmCb(vnode.Elm, listeners)
	// recurse into a child component's root first
	if vnode.ComponentInstance != nil {
		if inner, ok := vnode.ComponentInstance.(interface{ RenderedVNode() *VNode }); ok {
			if root := inner.RenderedVNode(); root != nil && root.Data != nil {
				p.removeAndInvokeRemoveHook(root)
			}
		}
	}
	for _, remove := range p.remove {
		remove(vnode, rm)
	}
	if hasUserRemove {
		vnode.Data.Hook.Remove(vnode, rm)
	} else {
		rm()
	}
}

func (p *patcher) createRmCb(elm Node, listeners int) func() {
	remaining := listeners
	return func() {
		remaining--
		if remaining == 0 {
			p.removeNode(elm)
		}
	}
}

func (p *patcher) invokeDestroyHook(vnode *VNode) {
	if vnode.Data != nil {
		if hook := vnode.Data.Hook; hook != nil && hook.Destroy != nil {
			hook.Destroy(vnode)
		}
		for _, destroy := range p.destroy {
			destroy(vnode)
		}
	}
	for _, child := range vnode.Children {
		if child != nil {
			p.invokeDestroyHook(child)
		}
	}
}

func (p *patcher) patchVnode(oldVnode, vnode *VNode, insertedVnodeQueue *[]*VNode, removeOnly bool) {
	if oldVnode == vnode {
		return
	}
	elm := oldVnode.Elm
	vnode.Elm = elm

	// static trees can be reused wholesale
	if vnode.IsStatic && oldVnode.IsStatic && looseKeyEqual(vnode.Key, oldVnode.Key) {
		vnode.ComponentInstance = oldVnode.ComponentInstance
		return
	}

	if vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.Prepatch != nil {
		vnode.Data.Hook.Prepatch(oldVnode, vnode)
	}

	if isPatchable(vnode) && vnode.Data != nil {
		for _, update := range p.update {
			update(oldVnode, vnode)
		}
		if hook := vnode.Data.Hook; hook != nil && hook.Update != nil {
			hook.Update(oldVnode, vnode)
		}
	}

	if vnode.Text == "" || len(vnode.Children) > 0 {
		switch {
		case len(oldVnode.Children) > 0 && len(vnode.Children) > 0:
			if !sameChildren(oldVnode.Children, vnode.Children) {
				p.updateChildren(elm, oldVnode.Children, vnode.Children, insertedVnodeQueue, removeOnly)
			}
		case len(vnode.Children) > 0:
			p.checkDuplicateKeys(vnode.Children)
			if oldVnode.Text != "" {
				p.dom.SetTextContent(elm, "")
			}
			p.addVnodes(elm, nil, vnode.Children, 0, len(vnode.Children)-1, insertedVnodeQueue)
		case len(oldVnode.Children) > 0:
			p.removeVnodes(oldVnode.Children, 0, len(oldVnode.Children)-1)
		case oldVnode.Text != "":
			p.dom.SetTextContent(elm, "")
		}
	} else if oldVnode.Text != vnode.Text {
		p.dom.SetTextContent(elm, vnode.Text)
	}

	if vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.PostPatch != nil {
		vnode.Data.Hook.PostPatch(oldVnode, vnode)
	}
}

func sameChildren(a, b []*VNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// updateChildren is the two-pointer sibling reconciliation. removeOnly
// suppresses the move operations so a sibling group mid leave-transition
// keeps its positions.
func (p *patcher) updateChildren(parentElm Node, oldCh, newCh []*VNode, insertedVnodeQueue *[]*VNode, removeOnly bool) {
	oldStartIdx, newStartIdx := 0, 0
	oldEndIdx := len(oldCh) - 1
	newEndIdx := len(newCh) - 1
	oldStartVnode, oldEndVnode := oldCh[0], oldCh[oldEndIdx]
	newStartVnode, newEndVnode := newCh[0], newCh[newEndIdx]

	var oldKeyToIdx map[any]int
	canMove := !removeOnly

	p.checkDuplicateKeys(newCh)

	for oldStartIdx <= oldEndIdx && newStartIdx <= newEndIdx {
		switch {
		case oldStartVnode == nil:
			// slot vacated by an earlier keyed move
			oldStartIdx++
			if oldStartIdx <= oldEndIdx {
				oldStartVnode = oldCh[oldStartIdx]
			}
		case oldEndVnode == nil:
			oldEndIdx--
			if oldStartIdx <= oldEndIdx {
				oldEndVnode = oldCh[oldEndIdx]
			}
		case SameVNode(oldStartVnode, newStartVnode):
			p.patchVnode(oldStartVnode, newStartVnode, insertedVnodeQueue, false)
			oldStartIdx++
			newStartIdx++
			if oldStartIdx <= oldEndIdx {
				oldStartVnode = oldCh[oldStartIdx]
			}
			if newStartIdx <= newEndIdx {
				newStartVnode = newCh[newStartIdx]
			}
		case SameVNode(oldEndVnode, newEndVnode):
			p.patchVnode(oldEndVnode, newEndVnode, insertedVnodeQueue, false)
			oldEndIdx--
			newEndIdx--
			if oldStartIdx <= oldEndIdx {
				oldEndVnode = oldCh[oldEndIdx]
			}
			if newStartIdx <= newEndIdx {
				newEndVnode = newCh[newEndIdx]
			}
		case SameVNode(oldStartVnode, newEndVnode):
			// vnode moved right
			p.patchVnode(oldStartVnode, newEndVnode, insertedVnodeQueue, false)
			if canMove {
				p.dom.InsertBefore(parentElm, oldStartVnode.Elm, p.dom.NextSibling(oldEndVnode.Elm))
			}
			oldStartIdx++
			newEndIdx--
			if oldStartIdx <= oldEndIdx {
				oldStartVnode = oldCh[oldStartIdx]
			}
			if newStartIdx <= newEndIdx {
				newEndVnode = newCh[newEndIdx]
			}
		case SameVNode(oldEndVnode, newStartVnode):
			// vnode moved left
			p.patchVnode(oldEndVnode, newStartVnode, insertedVnodeQueue, false)
			if canMove {
				p.dom.InsertBefore(parentElm, oldEndVnode.Elm, oldStartVnode.Elm)
			}
			oldEndIdx--
			newStartIdx++
			if oldStartIdx <= oldEndIdx {
				oldEndVnode = oldCh[oldEndIdx]
			}
			if newStartIdx <= newEndIdx {
				newStartVnode = newCh[newStartIdx]
			}
		default:
			if oldKeyToIdx == nil {
				oldKeyToIdx = createKeyToOldIdx(oldCh, oldStartIdx, oldEndIdx)
			}
			idxInOld := -1
			if newStartVnode.Key != nil {
				if idx, ok := oldKeyToIdx[newStartVnode.Key]; ok {
					idxInOld = idx
				}
			} else {
				idxInOld = findIdxInOld(newStartVnode, oldCh, oldStartIdx, oldEndIdx)
			}
			if idxInOld < 0 {
				p.createElm(newStartVnode, insertedVnodeQueue, parentElm, oldStartVnode.Elm)
			} else {
				vnodeToMove := oldCh[idxInOld]
				if SameVNode(vnodeToMove, newStartVnode) {
					p.patchVnode(vnodeToMove, newStartVnode, insertedVnodeQueue, false)
					oldCh[idxInOld] = nil
					if canMove {
						p.dom.InsertBefore(parentElm, vnodeToMove.Elm, oldStartVnode.Elm)
					}
				} else {
					// same key but different element, treat as new
					p.createElm(newStartVnode, insertedVnodeQueue, parentElm, oldStartVnode.Elm)
				}
			}
			newStartIdx++
			if newStartIdx <= newEndIdx {
				newStartVnode = newCh[newStartIdx]
			}
		}
	}

	if oldStartIdx > oldEndIdx {
		var refElm Node
		if newEndIdx+1 < len(newCh) {
			refElm = newCh[newEndIdx+1].Elm
		}
		p.addVnodes(parentElm, refElm, newCh, newStartIdx, newEndIdx, insertedVnodeQueue)
	} else if newStartIdx > newEndIdx {
		p.removeVnodes(oldCh, oldStartIdx, oldEndIdx)
	}
}

func createKeyToOldIdx(children []*VNode, beginIdx, endIdx int) map[any]int {
	m := make(map[any]int, endIdx-beginIdx+1)
	for i := beginIdx; i <= endIdx; i++ {
		if children[i] != nil && children[i].Key != nil {
			m[children[i].Key] = i
		}
	}
	return m
}

func findIdxInOld(node *VNode, oldCh []*VNode, start, end int) int {
	for i := start; i <= end; i++ {
		c := oldCh[i]
		if c != nil && SameVNode(node, c) {
			return i
		}
	}
	return -1
}

func (p *patcher) checkDuplicateKeys(children []*VNode) {
	seen := mapset.NewThreadUnsafeSet[any]()
	for _, child := range children {
		if child == nil || child.Key == nil {
			continue
		}
		if seen.Contains(child.Key) {
			p.warn(fmt.Sprintf("duplicate keys detected: %v, this may cause an update error", child.Key))
			continue
		}
		seen.Add(child.Key)
	}
}

// invokeInsertHook fires collected insert hooks once the tree is really
// in the document. A component root mounted before its placeholder is
// inserted parks its queue on the placeholder instead.
func (p *patcher) invokeInsertHook(vnode *VNode, queue *[]*VNode, isInitialPatch bool) {
	if isInitialPatch && vnode.Parent != nil {
		if vnode.Parent.Data == nil {
			vnode.Parent.Data = &VNodeData{}
		}
		vnode.Parent.Data.PendingInsert = *queue
		return
	}
	for _, inserted := range *queue {
		inserted.Data.Hook.Insert(inserted)
	}
}
