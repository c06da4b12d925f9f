package runtime

import (
	"fmt"

	"github.com/delaneyj/renderparty/reactive"
	"github.com/delaneyj/renderparty/vdom"
)

// Component is one live instance of an Options declaration. It owns its
// reactive state, its render watcher and its place in the instance tree.
type Component struct {
	app *App
	uid uint64

	options *Options

	parent   *Component
	root     *Component
	children []*Component
	refs     map[string]any

	// placeholder is this instance's vnode in the parent's tree;
	// rendered is the root of its own tree.
	placeholder *vdom.VNode
	rendered    *vdom.VNode
	el          vdom.Node

	renderWatcher    *reactive.Watcher
	watchers         []*reactive.Watcher
	computedWatchers map[string]*reactive.Watcher

	props     *reactive.Map
	propsData map[string]any
	data      *reactive.Map
	injected  *reactive.Map
	// frame carries $attrs and $listeners so renders reading them
	// re-run when the parent passes new ones.
	frame *reactive.Map

	listeners    map[string]any
	slotChildren []*vdom.VNode
	provided     map[uint64]any

	mounted        bool
	destroyed      bool
	beingDestroyed bool
	// inactive is nil until keep-alive first toggles this subtree.
	inactive       *bool
	directInactive bool
}

func (app *App) newComponent(opts *Options, parent *Component, placeholder *vdom.VNode) *Component {
	app.uid++
	c := &Component{
		app:              app,
		uid:              app.uid,
		parent:           parent,
		placeholder:      placeholder,
		refs:             map[string]any{},
		computedWatchers: map[string]*reactive.Watcher{},
	}
	c.options = mergeOptions(app.base, opts, c, func(msg string) { app.warn(msg, c) })

	c.initLifecycle()
	c.initEvents()
	c.initRender()
	c.callHook(hookBeforeCreate)
	c.initInjections()
	c.initState()
	c.initProvide()
	c.callHook(hookCreated)

	if c.options.El != nil {
		c.Mount(c.options.El)
	}
	return c
}

func (c *Component) initLifecycle() {
	parent := c.parent
	if parent != nil && !c.options.Abstract {
		for parent.options.Abstract && parent.parent != nil {
			parent = parent.parent
		}
		parent.children = append(parent.children, c)
	}
	c.parent = parent
	if parent != nil {
		c.root = parent.root
	} else {
		c.root = c
	}
}

func (c *Component) initEvents() {
	if c.placeholder != nil && c.placeholder.ComponentOptions != nil {
		c.listeners = c.placeholder.ComponentOptions.Listeners
	}
}

func (c *Component) initRender() {
	if c.placeholder != nil && c.placeholder.ComponentOptions != nil {
		c.slotChildren = c.placeholder.ComponentOptions.Children
	}
	c.frame = reactive.NewMap(c.app.rt)
	c.frame.Set("$attrs", attrsOf(c.placeholder))
	c.frame.Set("$listeners", c.listeners)
	reactive.Observe(c.app.rt, c.frame)
}

func attrsOf(placeholder *vdom.VNode) map[string]any {
	if placeholder == nil || placeholder.Data == nil {
		return nil
	}
	return placeholder.Data.Attrs
}

// Accessors.

func (c *Component) App() *App              { return c.app }
func (c *Component) ID() uint64             { return c.uid }
func (c *Component) Name() string           { return c.name() }
func (c *Component) Parent() *Component     { return c.parent }
func (c *Component) Root() *Component       { return c.root }
func (c *Component) Children() []*Component { return c.children }
func (c *Component) Refs() map[string]any   { return c.refs }
func (c *Component) El() vdom.Node          { return c.el }
func (c *Component) IsMounted() bool        { return c.mounted }
func (c *Component) IsDestroyed() bool      { return c.destroyed }
func (c *Component) Slot() []*vdom.VNode    { return c.slotChildren }
func (c *Component) Options() *Options      { return c.options }

// Attrs returns the attributes the parent passed that no declared prop
// consumed.
func (c *Component) Attrs() map[string]any {
	attrs, _ := c.frame.Get("$attrs").(map[string]any)
	return attrs
}

// Listeners returns the event listeners the parent attached.
func (c *Component) Listeners() map[string]any {
	listeners, _ := c.frame.Get("$listeners").(map[string]any)
	return listeners
}

// RootNode reports the host node this instance's tree is bound to.
func (c *Component) RootNode() vdom.Node { return c.el }

// RenderedVNode exposes the root of the instance's rendered tree.
func (c *Component) RenderedVNode() *vdom.VNode { return c.rendered }

// IsBeingDestroyed lets watchers skip owner detachment mid-teardown.
func (c *Component) IsBeingDestroyed() bool { return c.beingDestroyed }

// RemoveWatcher detaches a torn-down watcher from this instance.
func (c *Component) RemoveWatcher(w *reactive.Watcher) {
	for i, item := range c.watchers {
		if item == w {
			c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
			return
		}
	}
}

// IsNonObservable keeps instances out of the reactivity graph.
func (c *Component) IsNonObservable() bool { return true }

// ReactiveGet makes instances addressable by dotted watch paths.
func (c *Component) ReactiveGet(key string) any { return c.Get(key) }

// CallActivatedHook is invoked by the scheduler for components
// reactivated during the flush.
func (c *Component) CallActivatedHook() { activateChildComponent(c, true) }

// NextTick defers fn until after the next flush.
func (c *Component) NextTick(fn func()) { c.app.rt.NextTick(fn) }

// Emit invokes the parent-supplied listener for event, if any.
func (c *Component) Emit(event string, args ...any) {
	handler := c.listeners[event]
	if handler == nil {
		return
	}
	c.invokeListener(handler, event, args)
}

func (c *Component) invokeListener(handler any, event string, args []any) {
	defer func() {
		if r := recover(); r != nil {
			c.app.handleError(recoveredError(r), c, fmt.Sprintf("handler for event %q", event))
		}
	}()
	switch f := handler.(type) {
	case func(args ...any):
		f(args...)
	case func():
		f()
	case []any:
		for _, h := range f {
			c.invokeListener(h, event, args)
		}
	default:
		c.warnf("listener for event %q has unsupported type %T", event, handler)
	}
}

// Mount renders the instance for the first time against el. A nil el
// mounts detached, the way child components do before insertion.
func (c *Component) Mount(el vdom.Node) *Component {
	c.el = el
	if c.options.Render == nil {
		c.options.Render = func(*Component) any { return vdom.EmptyVNode() }
		c.warnf("failed to mount component %s: render function not defined", c.name())
	}
	c.callHook(hookBeforeMount)

	c.renderWatcher = reactive.NewWatcher(c.app.rt, c, func() any {
		c.update(c.render())
		return nil
	}, nil, &reactive.WatcherOptions{
		Before: func() {
			if c.mounted && !c.destroyed {
				c.callHook(hookBeforeUpdate)
			}
		},
		OnUpdated: func() {
			if c.mounted && !c.destroyed {
				c.callHook(hookUpdated)
			}
		},
		Expression: c.name() + " render",
	})
	c.watchers = append(c.watchers, c.renderWatcher)

	// children flip mounted from the patch insert hook instead, so the
	// order is bottom-up
	if c.placeholder == nil {
		c.mounted = true
		c.callHook(hookMounted)
	}
	return c
}

func (c *Component) update(vnode *vdom.VNode) {
	prevVnode := c.rendered
	restore := c.app.pushActiveInstance(c)
	c.rendered = vnode
	if prevVnode == nil {
		var old *vdom.VNode
		if c.el != nil {
			old = vdom.WrapElement(c.app.dom, c.el)
		}
		c.el = c.app.patch(old, vnode, false)
	} else {
		c.el = c.app.patch(prevVnode, vnode, false)
	}
	restore()
	// a higher-order component's placeholder tracks the inner root
	if c.placeholder != nil && c.parent != nil && c.placeholder == c.parent.rendered {
		c.parent.el = c.el
	}
}

// ForceUpdate re-renders this instance only; children re-render when
// their own inputs change.
func (c *Component) ForceUpdate() {
	if c.renderWatcher != nil {
		c.renderWatcher.Update()
	}
}

// Destroy tears the instance down: hooks, watcher teardown, data
// refcount, tree unpatch, parent detach.
func (c *Component) Destroy() {
	if c.beingDestroyed {
		return
	}
	c.callHook(hookBeforeDestroy)
	c.beingDestroyed = true

	if p := c.parent; p != nil && !p.beingDestroyed && !c.options.Abstract {
		for i, child := range p.children {
			if child == c {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}

	watchers := make([]*reactive.Watcher, len(c.watchers))
	copy(watchers, c.watchers)
	for _, w := range watchers {
		w.Teardown()
	}
	c.watchers = nil
	c.renderWatcher = nil

	if c.data != nil {
		if ob := c.data.Observer(); ob != nil {
			ob.DecVMCount()
		}
	}

	c.destroyed = true
	c.app.patch(c.rendered, nil, false)
	c.callHook(hookDestroyed)
	c.listeners = nil
	if c.placeholder != nil {
		c.placeholder.Parent = nil
	}
}

func (c *Component) callHook(name string) {
	rt := c.app.rt
	rt.PushTarget(nil)
	for _, h := range c.options.hooksFor(name) {
		c.app.invokeHook(h, c, name+" hook")
	}
	rt.PopTarget()
}

func (c *Component) name() string {
	if c.options != nil && c.options.Name != "" {
		return c.options.Name
	}
	return "anonymous"
}

func (c *Component) warnf(format string, args ...any) {
	c.app.rt.Warn(fmt.Sprintf(format, args...), c)
}

// activateChildComponent wakes a kept-alive subtree, children first
// entering through the recursion, hooks firing on the way out.
func activateChildComponent(c *Component, direct bool) {
	if direct {
		c.directInactive = false
		if c.inInactiveTree() {
			return
		}
	} else if c.directInactive {
		return
	}
	if c.inactive == nil || *c.inactive {
		f := false
		c.inactive = &f
		for _, child := range c.children {
			activateChildComponent(child, false)
		}
		c.callHook(hookActivated)
	}
}

func deactivateChildComponent(c *Component, direct bool) {
	if direct {
		c.directInactive = true
		if c.inInactiveTree() {
			return
		}
	}
	if c.inactive == nil || !*c.inactive {
		t := true
		c.inactive = &t
		for _, child := range c.children {
			deactivateChildComponent(child, false)
		}
		c.callHook(hookDeactivated)
	}
}

func (c *Component) inInactiveTree() bool {
	for p := c.parent; p != nil; p = p.parent {
		if p.inactive != nil && *p.inactive {
			return true
		}
	}
	return false
}
