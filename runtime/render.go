package runtime

import (
	"github.com/delaneyj/renderparty/vdom"
)

// render invokes the declared render function and normalizes its result
// to a single root vnode. A panicking render falls back to the previous
// tree so the patch sees something well-formed.
func (c *Component) render() *vdom.VNode {
	prev := c.app.currentRendering
	c.app.currentRendering = c
	defer func() { c.app.currentRendering = prev }()

	raw := c.invokeRender()
	vnode := c.normalizeRenderResult(raw)
	if vnode == nil {
		vnode = vdom.EmptyVNode()
	}
	vnode.Parent = c.placeholder
	return vnode
}

func (c *Component) invokeRender() (out any) {
	defer func() {
		if r := recover(); r != nil {
			c.app.handleError(recoveredError(r), c, "render")
			out = c.rendered
		}
	}()
	return c.options.Render(c)
}

func (c *Component) normalizeRenderResult(raw any) *vdom.VNode {
	switch v := raw.(type) {
	case *vdom.VNode:
		return v
	case []*vdom.VNode:
		if len(v) == 1 {
			return v[0]
		}
		if len(v) > 1 {
			c.warnf("multiple root nodes returned from render, a component can only have one root")
		}
		return vdom.EmptyVNode()
	case nil:
		return vdom.EmptyVNode()
	default:
		c.warnf("render returned %T, expected a vnode", raw)
		return vdom.EmptyVNode()
	}
}

// H builds a vnode in the context of this instance. A string tag is
// resolved against reserved elements first, then registered components;
// *Options and *AsyncComponent values instantiate directly.
func (c *Component) H(tag any, data *vdom.VNodeData, children ...any) *vdom.VNode {
	switch t := tag.(type) {
	case nil:
		return vdom.EmptyVNode()
	case string:
		if t == "" {
			return vdom.EmptyVNode()
		}
		if data != nil && data.Is != "" {
			return c.H(data.Is, data, children...)
		}
		if vdom.IsReservedTag(t) {
			vn := vdom.H(t, data, children...)
			vn.Context = c
			return vn
		}
		if asset, ok := resolveAsset(c.options, assetComponents, t); ok {
			switch a := asset.(type) {
			case *Options:
				return c.componentVNode(a, data, t, children)
			case *AsyncComponent:
				return c.asyncComponentVNode(a, data, t, children)
			}
		}
		// unknown tags still render as elements, custom elements included
		vn := vdom.H(t, data, children...)
		vn.Context = c
		return vn
	case *Options:
		return c.componentVNode(t, data, nameOrTag(t, ""), children)
	case *AsyncComponent:
		return c.asyncComponentVNode(t, data, "", children)
	default:
		c.warnf("cannot create a vnode from %T", tag)
		return vdom.EmptyVNode()
	}
}

// Text builds a text vnode.
func (c *Component) Text(text string) *vdom.VNode {
	return vdom.TextVNode(text)
}

func nameOrTag(opts *Options, tag string) string {
	if opts.Name != "" {
		return opts.Name
	}
	return tag
}
