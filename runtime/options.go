package runtime

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unsafe"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/renderparty/reactive"
	"github.com/delaneyj/renderparty/vdom"
)

// Hook is a lifecycle callback bound to the instance it fires on.
type Hook func(c *Component)

// Method is a user method, callable through Call and addressable by name
// from watch handlers.
type Method func(c *Component, args ...any) any

// RenderFunc produces the instance's vnode tree. It may return a
// *vdom.VNode or a slice of them; a slice with more than one root warns
// and renders empty.
type RenderFunc func(c *Component) any

// DataFunc builds the instance's reactive state. Each instance must get
// its own Map; returning a shared one couples every instance's state.
type DataFunc func(c *Component) *reactive.Map

// ErrorCapturedHook observes errors from descendant instances. Returning
// false stops the error from propagating to further ancestors.
type ErrorCapturedHook func(err error, c *Component, info string) bool

// WatchCallback fires when a watched expression changes value.
type WatchCallback func(c *Component, newVal, oldVal any) error

type PropType int

const (
	PropAny PropType = iota
	PropString
	PropNumber
	PropBool
	PropFunc
	PropMap
	PropSlice
)

func (t PropType) String() string {
	switch t {
	case PropString:
		return "string"
	case PropNumber:
		return "number"
	case PropBool:
		return "bool"
	case PropFunc:
		return "func"
	case PropMap:
		return "map"
	case PropSlice:
		return "slice"
	default:
		return "any"
	}
}

type PropOptions struct {
	Type     []PropType
	Required bool
	// Default is used when the parent passes nothing. Container defaults
	// must be factories (func() any) so instances do not share state.
	Default   any
	Validator func(v any) bool
}

type InjectOptions struct {
	// From names the provided key to look up; empty means the inject key
	// itself.
	From string
	// Default is a fallback value, or a func() any factory.
	Default any
}

type ComputedAccessor struct {
	Get func(c *Component) any
	Set func(c *Component, v any)
}

// WatchHandler is one normalized entry of a watch option. Handler is a
// WatchCallback or the name of a method.
type WatchHandler struct {
	Handler   any
	Deep      bool
	Immediate bool
	Sync      bool
}

// Directive hooks run against the host element a directive is bound to.
type Directive struct {
	Bind   func(el vdom.Node, vnode *vdom.VNode, value any)
	Update func(el vdom.Node, vnode *vdom.VNode, value any)
	Unbind func(el vdom.Node, vnode *vdom.VNode, value any)
}

// DirectiveFunc is the shorthand form: it runs on both bind and update.
type DirectiveFunc func(el vdom.Node, vnode *vdom.VNode, value any)

// Options declares a component. Zero values mean "not set"; merged
// options are produced by mergeOptions and carry the asset chains.
type Options struct {
	Name string
	El   vdom.Node

	Data      DataFunc
	Props     map[string]*PropOptions
	PropNames []string
	PropsData map[string]any
	Methods   map[string]Method
	// Computed values are func(c *Component) any getters or
	// *ComputedAccessor get/set pairs.
	Computed map[string]any
	// Watch values are a handler (callback, method name, *WatchHandler)
	// or a slice of handlers.
	Watch  map[string]any
	Render RenderFunc

	// Components holds *Options or *AsyncComponent values.
	Components map[string]any
	Directives map[string]any
	Filters    map[string]any

	Mixins  []*Options
	Extends *Options

	// Provide is a map[string]any or a func(c *Component) map[string]any.
	Provide     any
	Inject      map[string]*InjectOptions
	InjectNames []string

	Abstract bool

	BeforeCreate  []Hook
	Created       []Hook
	BeforeMount   []Hook
	Mounted       []Hook
	BeforeUpdate  []Hook
	Updated       []Hook
	BeforeDestroy []Hook
	Destroyed     []Hook
	Activated     []Hook
	Deactivated   []Hook
	ErrorCaptured []ErrorCapturedHook

	// Extra carries unrecognized options; they merge child-wins.
	Extra map[string]any

	components *assetChain
	directives *assetChain
	filters    *assetChain

	cid        uint64
	normalized bool
}

const (
	hookBeforeCreate  = "beforeCreate"
	hookCreated       = "created"
	hookBeforeMount   = "beforeMount"
	hookMounted       = "mounted"
	hookBeforeUpdate  = "beforeUpdate"
	hookUpdated       = "updated"
	hookBeforeDestroy = "beforeDestroy"
	hookDestroyed     = "destroyed"
	hookActivated     = "activated"
	hookDeactivated   = "deactivated"
)

func (o *Options) hooksFor(name string) []Hook {
	switch name {
	case hookBeforeCreate:
		return o.BeforeCreate
	case hookCreated:
		return o.Created
	case hookBeforeMount:
		return o.BeforeMount
	case hookMounted:
		return o.Mounted
	case hookBeforeUpdate:
		return o.BeforeUpdate
	case hookUpdated:
		return o.Updated
	case hookBeforeDestroy:
		return o.BeforeDestroy
	case hookDestroyed:
		return o.Destroyed
	case hookActivated:
		return o.Activated
	case hookDeactivated:
		return o.Deactivated
	}
	return nil
}

// assetChain is the prototype-style fallback chain for components,
// directives and filters: own entries first, then the parent chain.
type assetChain struct {
	own    map[string]any
	parent *assetChain
}

func (a *assetChain) lookup(id string) (any, bool) {
	for c := a; c != nil; c = c.parent {
		if v, ok := c.own[id]; ok {
			return v, true
		}
	}
	return nil, false
}

func (o *Options) chainFor(kind string) *assetChain {
	var chain *assetChain
	var own map[string]any
	switch kind {
	case assetComponents:
		chain, own = o.components, o.Components
	case assetDirectives:
		chain, own = o.directives, o.Directives
	case assetFilters:
		chain, own = o.filters, o.Filters
	}
	if chain != nil {
		return chain
	}
	if own != nil {
		return &assetChain{own: own}
	}
	return nil
}

// mergeStrategy combines a parent option value with a child one. c is
// nil when merging declarations rather than creating an instance.
type mergeStrategy func(parent, child any, c *Component, warn func(string)) any

var strats = map[string]mergeStrategy{
	"el":              mergeInstanceOnly,
	"propsData":       mergeInstanceOnly,
	"data":            mergeData,
	"provide":         mergeProvide,
	"props":           shallowStrat[*PropOptions](),
	"methods":         shallowStrat[Method](),
	"inject":          shallowStrat[*InjectOptions](),
	"computed":        shallowStrat[any](),
	"watch":           mergeWatch,
	"components":      mergeAssets,
	"directives":      mergeAssets,
	"filters":         mergeAssets,
	hookBeforeCreate:  hookStrat[Hook](),
	hookCreated:       hookStrat[Hook](),
	hookBeforeMount:   hookStrat[Hook](),
	hookMounted:       hookStrat[Hook](),
	hookBeforeUpdate:  hookStrat[Hook](),
	hookUpdated:       hookStrat[Hook](),
	hookBeforeDestroy: hookStrat[Hook](),
	hookDestroyed:     hookStrat[Hook](),
	hookActivated:     hookStrat[Hook](),
	hookDeactivated:   hookStrat[Hook](),
	"errorCaptured":   hookStrat[ErrorCapturedHook](),
}

func mergeField(name string, parent, child any, c *Component, warn func(string)) any {
	if strat, ok := strats[name]; ok {
		return strat(parent, child, c, warn)
	}
	return defaultStrat(parent, child)
}

// defaultStrat is child-wins: the child value replaces the parent's
// whenever the child set one.
func defaultStrat(parent, child any) any {
	if isNil(child) {
		return parent
	}
	return child
}

func mergeInstanceOnly(parent, child any, c *Component, warn func(string)) any {
	if c == nil {
		warn("the el and propsData options are only respected during instance creation")
	}
	return defaultStrat(parent, child)
}

// mergeData composes data factories: the child's result keeps its keys,
// parent keys it lacks are grafted in, nested Maps merge recursively.
func mergeData(parent, child any, _ *Component, _ func(string)) any {
	pf := as[DataFunc](parent)
	cf := as[DataFunc](child)
	if cf == nil {
		return pf
	}
	if pf == nil {
		return cf
	}
	return DataFunc(func(c *Component) *reactive.Map {
		return mergeDataMaps(cf(c), pf(c))
	})
}

func mergeDataMaps(to, from *reactive.Map) *reactive.Map {
	if to == nil {
		return from
	}
	if from == nil {
		return to
	}
	for _, key := range from.Keys() {
		if !to.Has(key) {
			to.Set(key, from.Raw(key))
			continue
		}
		tm, tok := to.Raw(key).(*reactive.Map)
		fm, fok := from.Raw(key).(*reactive.Map)
		if tok && fok && tm != fm {
			mergeDataMaps(tm, fm)
		}
	}
	return to
}

// mergeProvide behaves like data: child entries win, parent entries fill
// the gaps. Function providers are resolved per instance.
func mergeProvide(parent, child any, _ *Component, _ func(string)) any {
	if isNil(child) {
		return parent
	}
	if isNil(parent) {
		return child
	}
	return func(c *Component) map[string]any {
		out := map[string]any{}
		for k, v := range resolveProvide(parent, c) {
			out[k] = v
		}
		for k, v := range resolveProvide(child, c) {
			out[k] = v
		}
		return out
	}
}

func resolveProvide(v any, c *Component) map[string]any {
	switch p := v.(type) {
	case map[string]any:
		return p
	case func(c *Component) map[string]any:
		return p(c)
	}
	return nil
}

func shallowStrat[V any]() mergeStrategy {
	return func(parent, child any, _ *Component, _ func(string)) any {
		pm := as[map[string]V](parent)
		cm := as[map[string]V](child)
		if cm == nil {
			return pm
		}
		if pm == nil {
			return cm
		}
		out := make(map[string]V, len(pm)+len(cm))
		for k, v := range pm {
			out[k] = v
		}
		for k, v := range cm {
			out[k] = v
		}
		return out
	}
}

// hookStrat concatenates parent hooks before child hooks, dropping
// duplicates a doubly-applied mixin would introduce. Hooks compare by
// func value: two closures of one function literal stay distinct, while
// the same hook value arriving twice is kept once.
func hookStrat[T any]() mergeStrategy {
	// a func value is one pointer to its closure; that pointer identifies it
	id := func(h T) uintptr { return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&h))) }
	return func(parent, child any, _ *Component, _ func(string)) any {
		p := as[[]T](parent)
		ch := as[[]T](child)
		if len(ch) == 0 {
			return p
		}
		seen := mapset.NewThreadUnsafeSet[uintptr]()
		merged := make([]T, 0, len(p)+len(ch))
		for _, h := range p {
			ptr := id(h)
			if seen.Contains(ptr) {
				continue
			}
			seen.Add(ptr)
			merged = append(merged, h)
		}
		for _, h := range ch {
			ptr := id(h)
			if seen.Contains(ptr) {
				continue
			}
			seen.Add(ptr)
			merged = append(merged, h)
		}
		return merged
	}
}

// mergeWatch concatenates handlers per key so parent handlers are not
// overwritten, just run first.
func mergeWatch(parent, child any, _ *Component, _ func(string)) any {
	pm := as[map[string]any](parent)
	cm := as[map[string]any](child)
	if cm == nil {
		return pm
	}
	if pm == nil {
		return cm
	}
	out := make(map[string]any, len(pm)+len(cm))
	for k, v := range pm {
		out[k] = normalizeWatchEntry(v)
	}
	for k, v := range cm {
		entry := normalizeWatchEntry(v)
		if prev, ok := out[k].([]*WatchHandler); ok {
			entry = append(append([]*WatchHandler{}, prev...), entry...)
		}
		out[k] = entry
	}
	return out
}

// mergeAssets chains the child's own registry over the parent's.
func mergeAssets(parent, child any, _ *Component, _ func(string)) any {
	var parentChain *assetChain
	switch p := parent.(type) {
	case *assetChain:
		parentChain = p
	case map[string]any:
		if p != nil {
			parentChain = &assetChain{own: p}
		}
	}
	own := as[map[string]any](child)
	if own == nil && parentChain != nil {
		return parentChain
	}
	return &assetChain{own: own, parent: parentChain}
}

// mergeOptions folds extends and mixins into the parent, then merges
// every option through the strategy table.
func mergeOptions(parent, child *Options, c *Component, warn func(string)) *Options {
	if parent == nil {
		parent = &Options{}
	}
	if child == nil {
		child = &Options{}
	}
	normalizeOptions(child, warn)

	if child.Extends != nil {
		parent = mergeOptions(parent, child.Extends, c, warn)
	}
	for _, m := range child.Mixins {
		parent = mergeOptions(parent, m, c, warn)
	}

	out := &Options{normalized: true}
	out.Name = as[string](defaultStrat(parent.Name, nonZero(child.Name)))
	out.Abstract = child.Abstract || parent.Abstract
	out.Render = as[RenderFunc](defaultStrat(parent.Render, child.Render))
	out.El = mergeField("el", parent.El, child.El, c, warn)
	out.PropsData = as[map[string]any](mergeField("propsData", parent.PropsData, child.PropsData, c, warn))
	out.Data = as[DataFunc](mergeField("data", parent.Data, child.Data, c, warn))
	out.Provide = mergeField("provide", parent.Provide, child.Provide, c, warn)
	out.Props = as[map[string]*PropOptions](mergeField("props", parent.Props, child.Props, c, warn))
	out.Methods = as[map[string]Method](mergeField("methods", parent.Methods, child.Methods, c, warn))
	out.Inject = as[map[string]*InjectOptions](mergeField("inject", parent.Inject, child.Inject, c, warn))
	out.Computed = as[map[string]any](mergeField("computed", parent.Computed, child.Computed, c, warn))
	out.Watch = as[map[string]any](mergeField("watch", parent.Watch, child.Watch, c, warn))

	out.components = as[*assetChain](mergeField("components", parent.chainFor(assetComponents), child.Components, c, warn))
	out.directives = as[*assetChain](mergeField("directives", parent.chainFor(assetDirectives), child.Directives, c, warn))
	out.filters = as[*assetChain](mergeField("filters", parent.chainFor(assetFilters), child.Filters, c, warn))

	out.BeforeCreate = as[[]Hook](mergeField(hookBeforeCreate, parent.BeforeCreate, child.BeforeCreate, c, warn))
	out.Created = as[[]Hook](mergeField(hookCreated, parent.Created, child.Created, c, warn))
	out.BeforeMount = as[[]Hook](mergeField(hookBeforeMount, parent.BeforeMount, child.BeforeMount, c, warn))
	out.Mounted = as[[]Hook](mergeField(hookMounted, parent.Mounted, child.Mounted, c, warn))
	out.BeforeUpdate = as[[]Hook](mergeField(hookBeforeUpdate, parent.BeforeUpdate, child.BeforeUpdate, c, warn))
	out.Updated = as[[]Hook](mergeField(hookUpdated, parent.Updated, child.Updated, c, warn))
	out.BeforeDestroy = as[[]Hook](mergeField(hookBeforeDestroy, parent.BeforeDestroy, child.BeforeDestroy, c, warn))
	out.Destroyed = as[[]Hook](mergeField(hookDestroyed, parent.Destroyed, child.Destroyed, c, warn))
	out.Activated = as[[]Hook](mergeField(hookActivated, parent.Activated, child.Activated, c, warn))
	out.Deactivated = as[[]Hook](mergeField(hookDeactivated, parent.Deactivated, child.Deactivated, c, warn))
	out.ErrorCaptured = as[[]ErrorCapturedHook](mergeField("errorCaptured", parent.ErrorCaptured, child.ErrorCaptured, c, warn))

	if parent.Extra != nil || child.Extra != nil {
		out.Extra = map[string]any{}
		for k, v := range parent.Extra {
			out.Extra[k] = v
		}
		for k, v := range child.Extra {
			out.Extra[k] = mergeField(k, parent.Extra[k], v, c, warn)
		}
	}
	return out
}

// normalizeOptions rewrites the shorthand forms into their canonical
// ones so every later stage sees a single shape.
func normalizeOptions(o *Options, warn func(string)) {
	if o.normalized {
		return
	}
	o.normalized = true

	if len(o.PropNames) > 0 {
		if o.Props == nil {
			o.Props = map[string]*PropOptions{}
		}
		for _, name := range o.PropNames {
			if _, ok := o.Props[name]; !ok {
				o.Props[name] = &PropOptions{}
			}
		}
		o.PropNames = nil
	}

	if len(o.InjectNames) > 0 {
		if o.Inject == nil {
			o.Inject = map[string]*InjectOptions{}
		}
		for _, name := range o.InjectNames {
			if _, ok := o.Inject[name]; !ok {
				o.Inject[name] = &InjectOptions{From: name}
			}
		}
		o.InjectNames = nil
	}
	for key, inj := range o.Inject {
		if inj.From == "" {
			inj.From = key
		}
	}

	for name, raw := range o.Directives {
		if f, ok := raw.(DirectiveFunc); ok {
			o.Directives[name] = &Directive{Bind: f, Update: f}
		} else if f, ok := raw.(func(el vdom.Node, vnode *vdom.VNode, value any)); ok {
			o.Directives[name] = &Directive{Bind: f, Update: f}
		}
	}

	for key, raw := range o.Computed {
		o.Computed[key] = normalizeComputedEntry(key, raw, warn)
	}

	for key, raw := range o.Watch {
		o.Watch[key] = normalizeWatchEntry(raw)
	}

	for name := range o.Components {
		validateComponentName(name, warn)
	}
}

func normalizeComputedEntry(key string, raw any, warn func(string)) *ComputedAccessor {
	switch v := raw.(type) {
	case *ComputedAccessor:
		if v.Get == nil {
			warn(fmt.Sprintf("getter is missing for computed property %q", key))
			v.Get = func(*Component) any { return nil }
		}
		return v
	case func(c *Component) any:
		return &ComputedAccessor{Get: v}
	default:
		warn(fmt.Sprintf("invalid definition for computed property %q: %T", key, raw))
		return &ComputedAccessor{Get: func(*Component) any { return nil }}
	}
}

func normalizeWatchEntry(v any) []*WatchHandler {
	switch e := v.(type) {
	case []*WatchHandler:
		return e
	case *WatchHandler:
		return []*WatchHandler{e}
	case []any:
		var out []*WatchHandler
		for _, item := range e {
			out = append(out, normalizeWatchEntry(item)...)
		}
		return out
	default:
		return []*WatchHandler{{Handler: e}}
	}
}

var componentNameRE = regexp.MustCompile(`^[a-zA-Z][\w.-]*$`)

func validateComponentName(name string, warn func(string)) bool {
	if !componentNameRE.MatchString(name) {
		warn(fmt.Sprintf("invalid component name %q: use alphanumeric characters, hyphens and underscores, starting with a letter", name))
		return false
	}
	if vdom.IsReservedTag(strings.ToLower(name)) {
		warn(fmt.Sprintf("component name %q conflicts with a reserved HTML or SVG element", name))
		return false
	}
	return true
}

// as converts an any back to its concrete option type; mismatches and
// nils become the zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

func nonZero(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isNil treats typed nil funcs, maps and slices as unset.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Ptr, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
