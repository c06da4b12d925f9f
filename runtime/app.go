package runtime

import (
	"fmt"

	"github.com/delaneyj/renderparty/reactive"
	"github.com/delaneyj/renderparty/vdom"
)

// App binds a reactivity runtime to a host DOM and owns everything
// shared across the component tree: the patch function, the global
// asset registry and the active-instance bookkeeping.
type App struct {
	rt    *reactive.Runtime
	dom   vdom.DOM
	patch vdom.PatchFunc
	base  *Options

	uid uint64
	cid uint64

	activeInstance   *Component
	currentRendering *Component
	isUpdatingChild  bool
	handlingError    bool
}

func NewApp(rt *reactive.Runtime, dom vdom.DOM, modules ...vdom.Module) *App {
	app := &App{
		rt:   rt,
		dom:  dom,
		base: &Options{normalized: true},
	}
	all := append([]vdom.Module{app.refsModule()}, modules...)
	app.patch = vdom.NewPatcher(dom, all, func(msg string) {
		rt.Warn(msg, nil)
	})
	return app
}

func (app *App) Runtime() *reactive.Runtime { return app.rt }
func (app *App) DOM() vdom.DOM              { return app.dom }

// RegisterComponent makes opts globally resolvable under name.
func (app *App) RegisterComponent(name string, opts *Options) {
	if !validateComponentName(name, app.baseWarn) {
		return
	}
	if opts.Name == "" {
		opts.Name = name
	}
	if app.base.Components == nil {
		app.base.Components = map[string]any{}
	}
	app.base.Components[name] = opts
}

// RegisterAsyncComponent registers a component whose options resolve on
// first use.
func (app *App) RegisterAsyncComponent(name string, a *AsyncComponent) {
	if !validateComponentName(name, app.baseWarn) {
		return
	}
	if app.base.Components == nil {
		app.base.Components = map[string]any{}
	}
	app.base.Components[name] = a
}

// RegisterDirective makes a directive globally resolvable under name.
func (app *App) RegisterDirective(name string, d *Directive) {
	if app.base.Directives == nil {
		app.base.Directives = map[string]any{}
	}
	app.base.Directives[name] = d
}

// RegisterFilter makes a filter globally resolvable under name.
func (app *App) RegisterFilter(name string, f any) {
	if app.base.Filters == nil {
		app.base.Filters = map[string]any{}
	}
	app.base.Filters[name] = f
}

// New creates a root component instance. When opts carries El, it is
// mounted immediately.
func (app *App) New(opts *Options) *Component {
	return app.newComponent(opts, nil, nil)
}

// Flush drives the scheduler: pending watcher runs, then NextTick
// callbacks.
func (app *App) Flush() { app.rt.Flush() }

func (app *App) pushActiveInstance(c *Component) func() {
	prev := app.activeInstance
	app.activeInstance = c
	return func() { app.activeInstance = prev }
}

func (app *App) cidFor(opts *Options) uint64 {
	if opts.cid == 0 {
		app.cid++
		opts.cid = app.cid
	}
	return opts.cid
}

func (app *App) baseWarn(msg string) {
	app.rt.Warn(msg, nil)
}

// refsModule maintains $refs as vnodes with a Ref carry their element
// or component instance in and out of the rendering instance.
func (app *App) refsModule() vdom.Module {
	return vdom.Module{
		Create: func(_, vnode *vdom.VNode) {
			registerRef(vnode, false)
		},
		Update: func(oldVnode, vnode *vdom.VNode) {
			oldRef := ""
			if oldVnode.Data != nil {
				oldRef = oldVnode.Data.Ref
			}
			newRef := ""
			if vnode.Data != nil {
				newRef = vnode.Data.Ref
			}
			if oldRef != newRef {
				registerRef(oldVnode, true)
			}
			registerRef(vnode, false)
		},
		Destroy: func(vnode *vdom.VNode) {
			registerRef(vnode, true)
		},
	}
}

func registerRef(vnode *vdom.VNode, isRemoval bool) {
	if vnode.Data == nil || vnode.Data.Ref == "" {
		return
	}
	c, ok := vnode.Context.(*Component)
	if !ok || c == nil {
		return
	}
	key := vnode.Data.Ref
	var ref any
	if vnode.ComponentInstance != nil {
		ref = vnode.ComponentInstance
	} else {
		ref = vnode.Elm
	}

	if isRemoval {
		if vnode.Data.RefInFor {
			if list, ok := c.refs[key].([]any); ok {
				for i, item := range list {
					if item == ref {
						c.refs[key] = append(list[:i], list[i+1:]...)
						break
					}
				}
			}
		} else if c.refs[key] == ref {
			delete(c.refs, key)
		}
		return
	}

	if vnode.Data.RefInFor {
		list, _ := c.refs[key].([]any)
		for _, item := range list {
			if item == ref {
				return
			}
		}
		c.refs[key] = append(list, ref)
	} else {
		c.refs[key] = ref
	}
}

func (app *App) warn(msg string, c *Component) {
	app.rt.Warn(msg, c)
}

func (app *App) warnf(c *Component, format string, args ...any) {
	app.rt.Warn(fmt.Sprintf(format, args...), c)
}
