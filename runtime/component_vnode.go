package runtime

import (
	"github.com/delaneyj/renderparty/vdom"
)

// componentVNode builds the placeholder vnode for a child component. The
// child itself is only instantiated when the patcher reaches the vnode.
func (c *Component) componentVNode(opts *Options, data *vdom.VNodeData, tag string, children []any) *vdom.VNode {
	app := c.app
	if data == nil {
		data = &vdom.VNodeData{}
	}
	propsData := extractProps(data, opts)
	listeners := data.On
	data.On = nil
	installComponentHooks(app, data)

	vn := &vdom.VNode{
		Tag:     componentTagName(app.cidFor(opts), nameOrTag(opts, tag)),
		Data:    data,
		Key:     data.Key,
		Context: c,
		ComponentOptions: &vdom.ComponentOptions{
			Options:   opts,
			PropsData: propsData,
			Listeners: listeners,
			Tag:       tag,
			Children:  vdom.NormalizeChildren(children),
		},
	}
	return vn
}

// extractProps pulls declared prop values out of the vnode data. Values
// found under Attrs are removed so $attrs holds only the leftovers;
// values under Props stay, since Props is component-input by definition.
func extractProps(data *vdom.VNodeData, opts *Options) map[string]any {
	if opts.Props == nil {
		return nil
	}
	res := map[string]any{}
	for key := range opts.Props {
		hyphen := hyphenate(key)
		if data.Props != nil {
			if v, ok := data.Props[key]; ok {
				res[key] = v
				continue
			}
			if v, ok := data.Props[hyphen]; ok {
				res[key] = v
				continue
			}
		}
		if data.Attrs != nil {
			if v, ok := data.Attrs[key]; ok {
				res[key] = v
				delete(data.Attrs, key)
				continue
			}
			if v, ok := data.Attrs[hyphen]; ok {
				res[key] = v
				delete(data.Attrs, hyphen)
			}
		}
	}
	return res
}

// installComponentHooks merges the management hooks into the vnode,
// running any user hook after the management one.
func installComponentHooks(app *App, data *vdom.VNodeData) {
	user := data.Hook
	hooks := &vdom.Hooks{
		Init: func(vnode *vdom.VNode) {
			app.componentInit(vnode)
			if user != nil && user.Init != nil {
				user.Init(vnode)
			}
		},
		Prepatch: func(oldVnode, vnode *vdom.VNode) {
			app.componentPrepatch(oldVnode, vnode)
			if user != nil && user.Prepatch != nil {
				user.Prepatch(oldVnode, vnode)
			}
		},
		Insert: func(vnode *vdom.VNode) {
			app.componentInsert(vnode)
			if user != nil && user.Insert != nil {
				user.Insert(vnode)
			}
		},
		Destroy: func(vnode *vdom.VNode) {
			app.componentDestroy(vnode)
			if user != nil && user.Destroy != nil {
				user.Destroy(vnode)
			}
		},
	}
	if user != nil {
		hooks.Create = user.Create
		hooks.Update = user.Update
		hooks.PostPatch = user.PostPatch
		hooks.Remove = user.Remove
	}
	data.Hook = hooks
}

func (app *App) componentInit(vnode *vdom.VNode) {
	if inst, ok := vnode.ComponentInstance.(*Component); ok && inst != nil &&
		!inst.destroyed && vnode.Data != nil && vnode.Data.KeepAlive {
		// a kept-alive instance reattaching goes through prepatch only
		app.componentPrepatch(vnode, vnode)
		return
	}
	opts, _ := vnode.ComponentOptions.Options.(*Options)
	child := app.newComponent(opts, app.activeInstance, vnode)
	vnode.ComponentInstance = child
	child.Mount(nil)
}

func (app *App) componentPrepatch(oldVnode, vnode *vdom.VNode) {
	inst, _ := oldVnode.ComponentInstance.(*Component)
	vnode.ComponentInstance = inst
	if inst == nil {
		return
	}
	co := vnode.ComponentOptions
	inst.updateChildComponent(vnode, co.PropsData, co.Listeners, co.Children)
}

func (app *App) componentInsert(vnode *vdom.VNode) {
	inst, _ := vnode.ComponentInstance.(*Component)
	if inst == nil {
		return
	}
	if !inst.mounted {
		inst.mounted = true
		inst.callHook(hookMounted)
	}
	if vnode.Data != nil && vnode.Data.KeepAlive {
		if ctx := inst.Context(); ctx != nil && ctx.mounted {
			// queued so activation runs after the whole flush settled
			app.rt.QueueActivated(inst)
		} else {
			activateChildComponent(inst, true)
		}
	}
}

func (app *App) componentDestroy(vnode *vdom.VNode) {
	inst, _ := vnode.ComponentInstance.(*Component)
	if inst == nil || inst.destroyed {
		return
	}
	if vnode.Data != nil && vnode.Data.KeepAlive {
		deactivateChildComponent(inst, true)
		return
	}
	inst.Destroy()
}

// Context returns the instance whose render produced this instance's
// placeholder, falling back to the parent.
func (c *Component) Context() *Component {
	if c.placeholder != nil {
		if ctx, ok := c.placeholder.Context.(*Component); ok && ctx != nil {
			return ctx
		}
	}
	return c.parent
}

// updateChildComponent pushes the parent's latest inputs into an existing
// child: placeholder, attrs, listeners, props and slot children.
func (c *Component) updateChildComponent(placeholder *vdom.VNode, propsData map[string]any, listeners map[string]any, children []*vdom.VNode) {
	app := c.app
	app.isUpdatingChild = true

	hasChildren := len(children) > 0 || len(c.slotChildren) > 0

	c.placeholder = placeholder
	if c.rendered != nil {
		c.rendered.Parent = placeholder
	}

	c.frame.Set("$attrs", attrsOf(placeholder))
	c.frame.Set("$listeners", listeners)

	if c.props != nil && c.options.Props != nil {
		for key, opts := range c.options.Props {
			c.props.Set(key, c.validateProp(key, opts, propsData))
		}
	}
	c.propsData = propsData
	c.listeners = listeners

	if hasChildren {
		c.slotChildren = children
		c.ForceUpdate()
	}
	app.isUpdatingChild = false
}

// AsyncComponent resolves its options on first render. Every instance
// whose render hit the unresolved placeholder re-renders on resolution.
type AsyncComponent struct {
	Loader func(resolve func(*Options), reject func(error))

	resolved *Options
	failed   error
	pending  bool
	owners   []*Component
}

// Resolved reports the resolved options, nil while loading or failed.
func (a *AsyncComponent) Resolved() *Options { return a.resolved }

// Failed reports the load error, if any.
func (a *AsyncComponent) Failed() error { return a.failed }

func (c *Component) asyncComponentVNode(a *AsyncComponent, data *vdom.VNodeData, tag string, children []any) *vdom.VNode {
	if a.resolved != nil {
		return c.componentVNode(a.resolved, data, tag, children)
	}
	if a.failed != nil {
		return vdom.EmptyVNode()
	}

	tracked := false
	for _, owner := range a.owners {
		if owner == c {
			tracked = true
			break
		}
	}
	if !tracked {
		a.owners = append(a.owners, c)
	}

	if !a.pending {
		a.pending = true
		// sync guards against the loader resolving before it returns;
		// those owners are already rendering the resolved options
		sync := true
		resolve := func(opts *Options) {
			if a.resolved != nil || a.failed != nil {
				return
			}
			a.resolved = opts
			if !sync {
				a.forceRenderOwners()
			}
		}
		reject := func(err error) {
			if a.resolved != nil || a.failed != nil {
				return
			}
			a.failed = err
			c.warnf("failed to resolve async component: %v", err)
			if !sync {
				a.forceRenderOwners()
			}
		}
		c.invokeLoader(a, resolve, reject)
		sync = false
	}

	if a.resolved != nil {
		return c.componentVNode(a.resolved, data, tag, children)
	}
	placeholder := vdom.EmptyVNode()
	placeholder.IsAsyncPlaceholder = true
	placeholder.AsyncFactory = a
	placeholder.Context = c
	return placeholder
}

func (c *Component) invokeLoader(a *AsyncComponent, resolve func(*Options), reject func(error)) {
	defer func() {
		if r := recover(); r != nil {
			reject(recoveredError(r))
		}
	}()
	a.Loader(resolve, reject)
}

func (a *AsyncComponent) forceRenderOwners() {
	owners := a.owners
	a.owners = nil
	for _, owner := range owners {
		if !owner.destroyed {
			owner.ForceUpdate()
		}
	}
}
