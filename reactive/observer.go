package reactive

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// NonObservable is implemented by values that must never be wrapped in an
// Observer, such as virtual nodes.
type NonObservable interface {
	IsNonObservable() bool
}

// KeyedReader is anything key-wise readable by a dotted-path getter.
type KeyedReader interface {
	ReactiveGet(key string) any
}

// Observer is attached to each observed Map or Slice. It owns the
// structural Dep used for "a key was added / an element was inserted"
// notifications; per-key Deps live on the Map itself.
type Observer struct {
	rt    *Runtime
	dep   *Dep
	value any

	// number of component instances using this as root $data
	vmCount int
}

func (ob *Observer) Dep() *Dep    { return ob.dep }
func (ob *Observer) IncVMCount()  { ob.vmCount++ }
func (ob *Observer) DecVMCount()  { ob.vmCount-- }
func (ob *Observer) VMCount() int { return ob.vmCount }

// Map is an observed keyed container. Go offers no way to intercept reads
// of a plain map, so reactive state lives behind Get/Set instead.
type Map struct {
	rt     *Runtime
	ob     *Observer
	values map[string]any
	deps   map[string]*Dep
	frozen bool
}

func NewMap(rt *Runtime) *Map {
	return &Map{
		rt:     rt,
		values: map[string]any{},
		deps:   map[string]*Dep{},
	}
}

func NewMapFrom(rt *Runtime, values map[string]any) *Map {
	m := NewMap(rt)
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Freeze marks the map immutable for observation purposes. A frozen map
// is never wrapped and its keys gain no Deps.
func (m *Map) Freeze() *Map {
	m.frozen = true
	return m
}

func (m *Map) IsFrozen() bool      { return m.frozen }
func (m *Map) Observer() *Observer { return m.ob }

func (m *Map) Len() int { return len(m.values) }

// Keys returns the key set in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get reads a key, registering the current target watcher on the key's
// Dep and, when the value is itself observed, on its structural Dep.
// Slice values additionally register every element observer, since
// elements cannot be tracked key-wise.
func (m *Map) Get(key string) any {
	val := m.values[key]
	if m.rt.target != nil {
		if dep := m.deps[key]; dep != nil {
			dep.Depend()
			if childOb := observerOf(val); childOb != nil {
				childOb.dep.Depend()
				if s, ok := val.(*Slice); ok {
					s.dependElements()
				}
			}
		}
	}
	return val
}

func (m *Map) ReactiveGet(key string) any { return m.Get(key) }

// Set writes an existing key. Writes of an equal value (NaN counts as
// equal to itself) do not notify. Writing a key the map does not have
// routes through SetKey so structural subscribers wake.
func (m *Map) Set(key string, val any) {
	old, ok := m.values[key]
	if !ok {
		SetKey(m.rt, m, key, val)
		return
	}
	if looseEqual(old, val) {
		return
	}
	m.values[key] = val
	if dep := m.deps[key]; dep != nil {
		observe(m.rt, val)
		dep.Notify()
	}
}

// Raw returns the backing value without dependency registration.
func (m *Map) Raw(key string) any { return m.values[key] }

// defineReactive allocates the key's Dep and observes its current value.
func (m *Map) defineReactive(key string) {
	if _, ok := m.deps[key]; ok {
		return
	}
	m.deps[key] = newDep(m.rt)
	observe(m.rt, m.values[key])
}

// Slice is an observed ordered sequence. Mutators notify the structural
// Dep after observing any inserted elements.
type Slice struct {
	rt    *Runtime
	ob    *Observer
	items []any
}

func NewSlice(rt *Runtime, items ...any) *Slice {
	s := &Slice{rt: rt}
	s.items = append(s.items, items...)
	return s
}

func (s *Slice) Observer() *Observer { return s.ob }

func (s *Slice) Len() int {
	s.dependSelf()
	return len(s.items)
}

// Index reads an element. Element reads register on the structural Dep;
// there is no per-index Dep.
func (s *Slice) Index(i int) any {
	s.dependSelf()
	val := s.items[i]
	if s.rt.target != nil {
		if childOb := observerOf(val); childOb != nil {
			childOb.dep.Depend()
		}
	}
	return val
}

// SetIndex replaces one element, implemented as a single-element splice.
func (s *Slice) SetIndex(i int, val any) {
	s.Splice(i, 1, val)
}

func (s *Slice) ToSlice() []any {
	s.dependSelf()
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Slice) Push(items ...any) {
	s.items = append(s.items, items...)
	s.observeInserted(items)
	s.notifySelf()
}

func (s *Slice) Pop() any {
	if len(s.items) == 0 {
		return nil
	}
	last := len(s.items) - 1
	val := s.items[last]
	s.items = s.items[:last]
	s.notifySelf()
	return val
}

func (s *Slice) Shift() any {
	if len(s.items) == 0 {
		return nil
	}
	val := s.items[0]
	s.items = append(s.items[:0], s.items[1:]...)
	s.notifySelf()
	return val
}

func (s *Slice) Unshift(items ...any) {
	s.items = append(append([]any{}, items...), s.items...)
	s.observeInserted(items)
	s.notifySelf()
}

// Splice removes deleteCount elements starting at start and inserts the
// given items in their place, returning the removed elements.
func (s *Slice) Splice(start, deleteCount int, items ...any) []any {
	if start < 0 {
		start = 0
	}
	if start > len(s.items) {
		start = len(s.items)
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > len(s.items) {
		deleteCount = len(s.items) - start
	}
	removed := make([]any, deleteCount)
	copy(removed, s.items[start:start+deleteCount])

	rest := make([]any, len(s.items)-start-deleteCount)
	copy(rest, s.items[start+deleteCount:])
	s.items = append(s.items[:start], append(items, rest...)...)

	s.observeInserted(items)
	s.notifySelf()
	return removed
}

func (s *Slice) Sort(less func(a, b any) bool) {
	sort.SliceStable(s.items, func(i, j int) bool { return less(s.items[i], s.items[j]) })
	s.notifySelf()
}

func (s *Slice) Reverse() {
	for i, j := 0, len(s.items)-1; i < j; i, j = i+1, j-1 {
		s.items[i], s.items[j] = s.items[j], s.items[i]
	}
	s.notifySelf()
}

func (s *Slice) observeInserted(items []any) {
	if s.ob == nil {
		return
	}
	for _, item := range items {
		observe(s.rt, item)
	}
}

func (s *Slice) dependSelf() {
	if s.rt.target != nil && s.ob != nil {
		s.ob.dep.Depend()
	}
}

func (s *Slice) notifySelf() {
	if s.ob != nil {
		s.ob.dep.Notify()
	}
}

// dependElements registers the target on every element's observer,
// recursing into nested slices.
func (s *Slice) dependElements() {
	for _, item := range s.items {
		if ob := observerOf(item); ob != nil {
			ob.dep.Depend()
		}
		if nested, ok := item.(*Slice); ok {
			nested.dependElements()
		}
	}
}

// Observe wraps a Map or Slice in an Observer, returning the existing one
// when the value is already observed. Primitives, frozen maps and
// NonObservable values return nil.
func Observe(rt *Runtime, value any) *Observer {
	return observe(rt, value)
}

func observe(rt *Runtime, value any) *Observer {
	switch v := value.(type) {
	case nil:
		return nil
	case NonObservable:
		return nil
	case *Map:
		if v.ob != nil {
			return v.ob
		}
		if v.frozen {
			return nil
		}
		ob := &Observer{rt: rt, dep: newDep(rt), value: v}
		v.ob = ob
		for key := range v.values {
			v.defineReactive(key)
		}
		return ob
	case *Slice:
		if v.ob != nil {
			return v.ob
		}
		ob := &Observer{rt: rt, dep: newDep(rt), value: v}
		v.ob = ob
		for _, item := range v.items {
			observe(rt, item)
		}
		return ob
	default:
		return nil
	}
}

func observerOf(value any) *Observer {
	switch v := value.(type) {
	case *Map:
		return v.ob
	case *Slice:
		return v.ob
	default:
		return nil
	}
}

// SetKey adds a reactive key to an observed map, or replaces an index of
// a slice, waking subscribers that only depended on structure. Adding
// keys to a component's root data map is rejected; declare them up front.
func SetKey(rt *Runtime, target any, key string, val any) {
	switch t := target.(type) {
	case *Map:
		if t.Has(key) {
			t.Set(key, val)
			return
		}
		ob := t.ob
		if ob != nil && ob.vmCount > 0 {
			rt.WarnOnce(xxhash.Sum64String("set-root-data:"+key),
				"avoid adding reactive keys to a root $data at runtime, declare it up front", target)
			return
		}
		t.values[key] = val
		if ob == nil {
			return
		}
		t.defineReactive(key)
		ob.dep.Notify()
	case *Slice:
		idx, err := sliceIndex(key)
		if err != nil {
			rt.Warn(fmt.Sprintf("cannot set key %q on a slice: %v", key, err), target)
			return
		}
		if idx == t.Len() {
			t.Push(val)
			return
		}
		t.SetIndex(idx, val)
	default:
		rt.Warn(fmt.Sprintf("cannot set reactive key %q on %T", key, target), target)
	}
}

// DeleteKey removes a key and notifies structural subscribers.
func DeleteKey(rt *Runtime, target any, key string) {
	switch t := target.(type) {
	case *Map:
		ob := t.ob
		if ob != nil && ob.vmCount > 0 {
			rt.WarnOnce(xxhash.Sum64String("del-root-data:"+key),
				"avoid deleting keys of a root $data at runtime", target)
			return
		}
		if !t.Has(key) {
			return
		}
		delete(t.values, key)
		delete(t.deps, key)
		if ob != nil {
			ob.dep.Notify()
		}
	case *Slice:
		idx, err := sliceIndex(key)
		if err != nil {
			rt.Warn(fmt.Sprintf("cannot delete key %q on a slice: %v", key, err), target)
			return
		}
		t.Splice(idx, 1)
	default:
		rt.Warn(fmt.Sprintf("cannot delete reactive key %q on %T", key, target), target)
	}
}

func sliceIndex(key string) (int, error) {
	var idx int
	if _, err := fmt.Sscanf(key, "%d", &idx); err != nil {
		return 0, fmt.Errorf("index must be numeric: %w", err)
	}
	if idx < 0 {
		return 0, fmt.Errorf("index %d out of range", idx)
	}
	return idx, nil
}

// looseEqual reports reference/value equality with NaN equal to itself.
// Uncomparable values are never equal.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			if math.IsNaN(fa) && math.IsNaN(fb) {
				return true
			}
			return fa == fb && reflect.TypeOf(a) == reflect.TypeOf(b)
		}
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// IsContainer reports whether v is an observable container.
func IsContainer(v any) bool {
	switch v.(type) {
	case *Map, *Slice:
		return true
	default:
		return false
	}
}
