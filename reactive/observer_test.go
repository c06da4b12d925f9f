package reactive_test

import (
	"math"
	"testing"

	"github.com/delaneyj/renderparty/reactive"
	"github.com/stretchr/testify/assert"
)

func newDevRuntime(t *testing.T) (*reactive.Runtime, *[]string) {
	warnings := &[]string{}
	rt := reactive.NewRuntime(reactive.Config{
		Dev: true,
		WarnHandler: func(msg string, from any) {
			*warnings = append(*warnings, msg)
		},
		OnError: func(from any, err error) {
			t.Fatalf("unexpected error: %v", err)
		},
	})
	return rt, warnings
}

// should return the written value on read
func TestMapRoundTrip(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	m.Set("a", 2)
	assert.Equal(t, 2, m.Get("a"))
}

// should not wrap an already observed container twice
func TestObserveIdempotent(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})

	ob1 := reactive.Observe(rt, m)
	ob2 := reactive.Observe(rt, m)
	assert.Same(t, ob1, ob2)
}

// should never observe primitives, frozen maps, or non-observables
func TestObserveRejects(t *testing.T) {
	rt, _ := newDevRuntime(t)

	assert.Nil(t, reactive.Observe(rt, 1))
	assert.Nil(t, reactive.Observe(rt, "hi"))
	assert.Nil(t, reactive.Observe(rt, nil))

	frozen := reactive.NewMapFrom(rt, map[string]any{"a": 1}).Freeze()
	assert.Nil(t, reactive.Observe(rt, frozen))
}

// writing the same value twice should notify at most once
func TestSameValueWriteCoalesced(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	runs := 0
	reactive.NewWatcher(rt, nil, func() any {
		runs++
		return m.Get("a")
	}, nil, &reactive.WatcherOptions{Sync: true})
	assert.Equal(t, 1, runs)

	m.Set("a", 2)
	assert.Equal(t, 2, runs)
	m.Set("a", 2)
	assert.Equal(t, 2, runs)
}

// NaN should count as equal to itself
func TestNaNWriteIsNoop(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": math.NaN()})
	reactive.Observe(rt, m)

	runs := 0
	reactive.NewWatcher(rt, nil, func() any {
		runs++
		return m.Get("a")
	}, nil, &reactive.WatcherOptions{Sync: true})

	m.Set("a", math.NaN())
	assert.Equal(t, 1, runs)
}

// adding a new key should wake structural subscribers
func TestSetKeyNotifiesStructure(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMap(rt)
	reactive.Observe(rt, m)

	keyCount := 0
	reactive.NewWatcher(rt, nil, func() any {
		keyCount = len(m.Keys())
		if m.Observer() != nil {
			m.Observer().Dep().Depend()
		}
		return keyCount
	}, nil, &reactive.WatcherOptions{Sync: true})
	assert.Equal(t, 0, keyCount)

	reactive.SetKey(rt, m, "fresh", 42)
	assert.Equal(t, 1, keyCount)
	assert.Equal(t, 42, m.Get("fresh"))

	reactive.DeleteKey(rt, m, "fresh")
	assert.Equal(t, 0, keyCount)
}

// adding keys to a root data map should warn and no-op
func TestSetKeyOnRootDataWarns(t *testing.T) {
	rt, warnings := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	ob := reactive.Observe(rt, m)
	ob.IncVMCount()

	reactive.SetKey(rt, m, "b", 2)
	assert.False(t, m.Has("b"))
	assert.Len(t, *warnings, 1)
}

// setting a reactive key on a primitive should warn and no-op
func TestSetKeyOnPrimitiveWarns(t *testing.T) {
	rt, warnings := newDevRuntime(t)
	reactive.SetKey(rt, 5, "a", 1)
	assert.Len(t, *warnings, 1)
}

// push should notify slice-level subscribers exactly once
func TestSlicePushNotifiesOnce(t *testing.T) {
	rt, _ := newDevRuntime(t)
	xs := reactive.NewSlice(rt, 1, 2, 3)
	reactive.Observe(rt, xs)

	runs := 0
	reactive.NewWatcher(rt, nil, func() any {
		runs++
		return xs.Len()
	}, nil, &reactive.WatcherOptions{Sync: true})
	assert.Equal(t, 1, runs)

	xs.Push(4)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 4, xs.Index(3))
}

// containers inserted by push should themselves become observable
func TestSlicePushObservesInserted(t *testing.T) {
	rt, _ := newDevRuntime(t)
	xs := reactive.NewSlice(rt)
	reactive.Observe(rt, xs)

	inner := reactive.NewMapFrom(rt, map[string]any{"n": 1})
	xs.Push(inner)
	assert.NotNil(t, inner.Observer())
}

// splice should observe inserted elements and return removed ones
func TestSliceSplice(t *testing.T) {
	rt, _ := newDevRuntime(t)
	xs := reactive.NewSlice(rt, "a", "b", "c", "d")
	reactive.Observe(rt, xs)

	removed := xs.Splice(1, 2, "x")
	assert.Equal(t, []any{"b", "c"}, removed)
	assert.Equal(t, []any{"a", "x", "d"}, xs.ToSlice())
}

// slice mutators should cover the whole intercepted set
func TestSliceMutators(t *testing.T) {
	rt, _ := newDevRuntime(t)
	xs := reactive.NewSlice(rt, 3, 1, 2)
	reactive.Observe(rt, xs)

	notifies := 0
	reactive.NewWatcher(rt, nil, func() any {
		return xs.Len()
	}, func(newVal, oldVal any) error {
		notifies++
		return nil
	}, &reactive.WatcherOptions{Sync: true})

	xs.Sort(func(a, b any) bool { return a.(int) < b.(int) })
	assert.Equal(t, []any{1, 2, 3}, xs.ToSlice())

	xs.Reverse()
	assert.Equal(t, []any{3, 2, 1}, xs.ToSlice())

	assert.Equal(t, 3, xs.Shift())
	xs.Unshift(9)
	assert.Equal(t, 1, xs.Pop())
	assert.Equal(t, []any{9, 2}, xs.ToSlice())
}
