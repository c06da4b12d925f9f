package runtime

import (
	"fmt"
	"reflect"

	"github.com/delaneyj/renderparty/reactive"
)

// initState wires the declared options into reactive instance state, in
// dependency order: props before data, data before computed, computed
// before watch.
func (c *Component) initState() {
	if c.options.Props != nil {
		c.initProps()
	}
	if c.options.Methods != nil {
		c.initMethods()
	}
	c.initData()
	if c.options.Computed != nil {
		c.initComputed()
	}
	if c.options.Watch != nil {
		c.initWatch()
	}
}

func (c *Component) initProps() {
	propsData := c.options.PropsData
	if c.placeholder != nil && c.placeholder.ComponentOptions != nil {
		propsData = c.placeholder.ComponentOptions.PropsData
	}
	c.propsData = propsData
	c.props = reactive.NewMap(c.app.rt)
	for key, opts := range c.options.Props {
		c.props.Set(key, c.validateProp(key, opts, propsData))
	}
	reactive.Observe(c.app.rt, c.props)
}

// validateProp resolves the final value of one prop: passed value,
// declared default or absent, with type and validator checks in Dev.
func (c *Component) validateProp(key string, opts *PropOptions, propsData map[string]any) any {
	value, present := propsData[key]
	if !present {
		value = c.propDefault(key, opts)
	}
	reactive.Observe(c.app.rt, value)
	if !c.app.rt.Config().Dev {
		return value
	}
	if opts.Required && !present {
		c.warnf("missing required prop %q", key)
	}
	if present && len(opts.Type) > 0 && value != nil && !matchesType(value, opts.Type) {
		c.warnf("invalid prop %q: expected %s, got %T", key, typeNames(opts.Type), value)
	}
	if opts.Validator != nil && !opts.Validator(value) {
		c.warnf("invalid prop %q: custom validator check failed", key)
	}
	return value
}

// propDefault resolves the declared default. When the previous props data
// also lacked the key, the previously resolved value is reused so the
// default factory does not retrigger an update.
func (c *Component) propDefault(key string, opts *PropOptions) any {
	if opts.Default == nil {
		return nil
	}
	if c.app.rt.Config().Dev && reactive.IsContainer(opts.Default) {
		c.warnf("prop %q default of type %T must use a factory func() any so instances do not share state", key, opts.Default)
	}
	if c.props != nil && c.props.Has(key) {
		prevData := c.propsData
		if _, passed := prevData[key]; !passed {
			return c.props.Raw(key)
		}
	}
	if factory, ok := opts.Default.(func() any); ok {
		return factory()
	}
	return opts.Default
}

func matchesType(value any, types []PropType) bool {
	for _, t := range types {
		if matchesOneType(value, t) {
			return true
		}
	}
	return false
}

func matchesOneType(value any, t PropType) bool {
	switch t {
	case PropAny:
		return true
	case PropString:
		_, ok := value.(string)
		return ok
	case PropBool:
		_, ok := value.(bool)
		return ok
	case PropNumber:
		switch reflect.ValueOf(value).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	case PropFunc:
		return reflect.ValueOf(value).Kind() == reflect.Func
	case PropMap:
		if _, ok := value.(*reactive.Map); ok {
			return true
		}
		return reflect.ValueOf(value).Kind() == reflect.Map
	case PropSlice:
		if _, ok := value.(*reactive.Slice); ok {
			return true
		}
		return reflect.ValueOf(value).Kind() == reflect.Slice
	}
	return false
}

func typeNames(types []PropType) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += " or "
		}
		out += t.String()
	}
	return out
}

func (c *Component) initMethods() {
	if !c.app.rt.Config().Dev {
		return
	}
	for key := range c.options.Methods {
		if c.props != nil && c.props.Has(key) {
			c.warnf("method %q is already defined as a prop", key)
		}
	}
}

// initData invokes the data factory with dependency collection disabled,
// so reads inside it subscribe nothing.
func (c *Component) initData() {
	rt := c.app.rt
	if c.options.Data == nil {
		c.data = reactive.NewMap(rt)
	} else {
		rt.PushTarget(nil)
		c.data = c.invokeData()
		rt.PopTarget()
		if c.data == nil {
			c.data = reactive.NewMap(rt)
			c.warnf("data function returned nil, falling back to an empty map")
		}
	}
	if rt.Config().Dev {
		for _, key := range c.data.Keys() {
			if c.options.Methods != nil {
				if _, ok := c.options.Methods[key]; ok {
					c.warnf("method %q is already defined as a data key", key)
				}
			}
			if c.props != nil && c.props.Has(key) {
				c.warnf("data key %q is already declared as a prop, prop value is used", key)
			}
		}
	}
	ob := reactive.Observe(rt, c.data)
	if ob != nil {
		ob.IncVMCount()
	}
}

func (c *Component) invokeData() (m *reactive.Map) {
	defer func() {
		if r := recover(); r != nil {
			c.app.handleError(recoveredError(r), c, "data()")
			m = nil
		}
	}()
	return c.options.Data(c)
}

// initComputed gives each computed key a lazy watcher; it evaluates on
// first read and caches until a dependency notifies.
func (c *Component) initComputed() {
	for key, raw := range c.options.Computed {
		acc, _ := raw.(*ComputedAccessor)
		if acc == nil || acc.Get == nil {
			continue
		}
		if c.app.rt.Config().Dev {
			if c.data != nil && c.data.Has(key) {
				c.warnf("computed property %q is already defined as a data key", key)
			}
			if c.props != nil && c.props.Has(key) {
				c.warnf("computed property %q is already declared as a prop", key)
			}
		}
		getter := acc.Get
		w := reactive.NewWatcher(c.app.rt, c, func() any {
			return getter(c)
		}, nil, &reactive.WatcherOptions{
			Lazy:       true,
			Expression: key,
		})
		c.computedWatchers[key] = w
		c.watchers = append(c.watchers, w)
	}
}

func (c *Component) initWatch() {
	for key, raw := range c.options.Watch {
		for _, handler := range normalizeWatchEntry(raw) {
			c.createWatcher(key, handler)
		}
	}
}

func (c *Component) createWatcher(key string, h *WatchHandler) {
	cb := c.watchHandlerCallback(key, h.Handler)
	if cb == nil {
		return
	}
	_, err := c.Watch(key, cb, &WatchOptions{
		Deep:      h.Deep,
		Immediate: h.Immediate,
		Sync:      h.Sync,
	})
	if err != nil {
		c.warnf("failed to create watcher for %q: %v", key, err)
	}
}

// watchHandlerCallback turns the accepted handler shapes into a single
// callback form. A string resolves to a method at creation time.
func (c *Component) watchHandlerCallback(key string, handler any) WatchCallback {
	switch h := handler.(type) {
	case WatchCallback:
		return h
	case func(c *Component, newVal, oldVal any) error:
		return h
	case func(c *Component, newVal, oldVal any):
		return func(c *Component, newVal, oldVal any) error {
			h(c, newVal, oldVal)
			return nil
		}
	case string:
		if c.options.Methods != nil {
			if m, ok := c.options.Methods[h]; ok {
				return func(c *Component, newVal, oldVal any) error {
					m(c, newVal, oldVal)
					return nil
				}
			}
		}
		c.warnf("watch handler %q for %q is not a defined method", h, key)
		return nil
	default:
		c.warnf("invalid watch handler for %q: %T", key, handler)
		return nil
	}
}

// Get reads instance state by key: props, data, computed, injections,
// methods and the $attrs/$listeners pseudo-keys, in that order.
func (c *Component) Get(key string) any {
	if c.props != nil && c.props.Has(key) {
		return c.props.Get(key)
	}
	if c.data != nil && c.data.Has(key) {
		return c.data.Get(key)
	}
	if w, ok := c.computedWatchers[key]; ok {
		if w.IsDirty() {
			w.Evaluate()
		}
		if c.app.rt.Target() != nil {
			w.Depend()
		}
		return w.Value()
	}
	if c.injected != nil && c.injected.Has(key) {
		return c.injected.Get(key)
	}
	if c.options.Methods != nil {
		if m, ok := c.options.Methods[key]; ok {
			return func(args ...any) any { return m(c, args...) }
		}
	}
	switch key {
	case "$attrs", "$listeners":
		return c.frame.Get(key)
	}
	return nil
}

// Set writes instance state by key. Unknown keys route through SetKey so
// the root-data guard applies.
func (c *Component) Set(key string, val any) {
	if c.props != nil && c.props.Has(key) {
		if !c.app.isUpdatingChild && c.app.rt.Config().Dev && c.parent != nil {
			c.warnf("avoid mutating prop %q directly: the value is overwritten whenever the parent re-renders", key)
		}
		c.props.Set(key, val)
		return
	}
	if c.data != nil && c.data.Has(key) {
		c.data.Set(key, val)
		return
	}
	if raw, ok := c.options.Computed[key]; ok {
		if acc, _ := raw.(*ComputedAccessor); acc != nil && acc.Set != nil {
			acc.Set(c, val)
			return
		}
		c.warnf("computed property %q has no setter", key)
		return
	}
	if c.injected != nil && c.injected.Has(key) {
		c.warnf("avoid mutating an injected value %q: the change is not reflected in the providing instance", key)
		c.injected.Set(key, val)
		return
	}
	reactive.SetKey(c.app.rt, c.data, key, val)
}

// Delete removes a reactive data key, subject to the root-data guard.
func (c *Component) Delete(key string) {
	reactive.DeleteKey(c.app.rt, c.data, key)
}

// Call invokes a declared method by name.
func (c *Component) Call(name string, args ...any) (result any) {
	m, ok := c.options.Methods[name]
	if !ok {
		c.warnf("method %q is not defined", name)
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			c.app.handleError(recoveredError(r), c, fmt.Sprintf("method %q", name))
			result = nil
		}
	}()
	return m(c, args...)
}

type WatchOptions struct {
	Deep      bool
	Immediate bool
	Sync      bool
}

// Watch observes a dotted path or getter function, returning a teardown
// func. Callback errors route through the error capture chain.
func (c *Component) Watch(exprOrFn any, cb WatchCallback, opts *WatchOptions) (func(), error) {
	if opts == nil {
		opts = &WatchOptions{}
	}

	var getter reactive.Getter
	expression := ""
	switch e := exprOrFn.(type) {
	case string:
		expression = e
		pathGetter, err := reactive.ParsePath(e)
		if err != nil {
			return nil, err
		}
		getter = func() any { return pathGetter(c) }
	case func(c *Component) any:
		expression = "function watcher"
		getter = func() any { return e(c) }
	case func() any:
		expression = "function watcher"
		getter = reactive.Getter(e)
	default:
		return nil, fmt.Errorf("watch expression must be a dotted path or getter function, got %T", exprOrFn)
	}

	wrapped := func(newVal, oldVal any) error {
		defer func() {
			if r := recover(); r != nil {
				c.app.handleError(recoveredError(r), c, fmt.Sprintf("watcher callback for %q", expression))
			}
		}()
		if err := cb(c, newVal, oldVal); err != nil {
			c.app.handleError(err, c, fmt.Sprintf("watcher callback for %q", expression))
		}
		return nil
	}

	w := reactive.NewWatcher(c.app.rt, c, getter, wrapped, &reactive.WatcherOptions{
		User:       true,
		Deep:       opts.Deep,
		Sync:       opts.Sync,
		Expression: expression,
	})
	c.watchers = append(c.watchers, w)

	if opts.Immediate {
		rt := c.app.rt
		rt.PushTarget(nil)
		wrapped(w.Value(), nil)
		rt.PopTarget()
	}
	return func() { w.Teardown() }, nil
}
