package reactive_test

import (
	"testing"

	"github.com/delaneyj/renderparty/reactive"
	"github.com/stretchr/testify/assert"
)

// a lazy watcher should evaluate once no matter how often it is read
func TestLazyWatcherCaches(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1, "b": 2})
	reactive.Observe(rt, m)

	evals := 0
	sum := reactive.NewWatcher(rt, nil, func() any {
		evals++
		return m.Get("a").(int) + m.Get("b").(int)
	}, nil, &reactive.WatcherOptions{Lazy: true})

	assert.True(t, sum.IsDirty())
	assert.Equal(t, 0, evals)

	readSum := func() int {
		if sum.IsDirty() {
			sum.Evaluate()
		}
		return sum.Value().(int)
	}

	assert.Equal(t, 3, readSum())
	assert.Equal(t, 3, readSum())
	assert.Equal(t, 3, readSum())
	assert.Equal(t, 1, evals)

	m.Set("a", 10)
	assert.True(t, sum.IsDirty())
	assert.Equal(t, 12, readSum())
	assert.Equal(t, 2, evals)
}

// a lazy watcher should forward its deps to the enclosing target
func TestLazyWatcherDepend(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	double := reactive.NewWatcher(rt, nil, func() any {
		return m.Get("a").(int) * 2
	}, nil, &reactive.WatcherOptions{Lazy: true})

	outerRuns := 0
	reactive.NewWatcher(rt, nil, func() any {
		outerRuns++
		if double.IsDirty() {
			double.Evaluate()
		}
		double.Depend()
		return double.Value()
	}, nil, &reactive.WatcherOptions{Sync: true})
	assert.Equal(t, 1, outerRuns)

	// the outer watcher never read m directly, only through the lazy one
	m.Set("a", 5)
	assert.Equal(t, 2, outerRuns)
}

// branches no longer read should drop their subscriptions
func TestCleanupDepsDropsStaleBranches(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"flag": true, "left": "l", "right": "r"})
	reactive.Observe(rt, m)

	runs := 0
	reactive.NewWatcher(rt, nil, func() any {
		runs++
		if m.Get("flag").(bool) {
			return m.Get("left")
		}
		return m.Get("right")
	}, nil, &reactive.WatcherOptions{Sync: true})
	assert.Equal(t, 1, runs)

	m.Set("right", "r2")
	assert.Equal(t, 1, runs)

	m.Set("flag", false)
	assert.Equal(t, 2, runs)

	// left is no longer a dependency after the re-run
	m.Set("left", "l2")
	assert.Equal(t, 2, runs)

	m.Set("right", "r3")
	assert.Equal(t, 3, runs)
}

// after get, the watcher's deps equal exactly the touched set
func TestDepGenerationSwap(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1, "b": 2})
	reactive.Observe(rt, m)

	w := reactive.NewWatcher(rt, nil, func() any {
		return m.Get("a")
	}, nil, &reactive.WatcherOptions{Sync: true})
	assert.Equal(t, 1, w.DepCount())

	w2 := reactive.NewWatcher(rt, nil, func() any {
		m.Get("a")
		m.Get("b")
		return nil
	}, nil, &reactive.WatcherOptions{Sync: true})
	assert.Equal(t, 2, w2.DepCount())
}

// a deep watcher should fire on nested mutation
func TestDeepWatcher(t *testing.T) {
	rt, _ := newDevRuntime(t)
	inner := reactive.NewMapFrom(rt, map[string]any{"n": 1})
	m := reactive.NewMapFrom(rt, map[string]any{"nested": inner})
	reactive.Observe(rt, m)

	fired := 0
	reactive.NewWatcher(rt, nil, func() any {
		return m.Get("nested")
	}, func(newVal, oldVal any) error {
		fired++
		return nil
	}, &reactive.WatcherOptions{Sync: true, Deep: true})

	inner.Set("n", 2)
	assert.Equal(t, 1, fired)
}

// teardown should stop future notifications
func TestTeardown(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	runs := 0
	w := reactive.NewWatcher(rt, nil, func() any {
		runs++
		return m.Get("a")
	}, nil, &reactive.WatcherOptions{Sync: true})

	m.Set("a", 2)
	assert.Equal(t, 2, runs)

	w.Teardown()
	assert.False(t, w.IsActive())
	m.Set("a", 3)
	assert.Equal(t, 2, runs)
}

// a dotted path getter should walk nested containers
func TestParsePath(t *testing.T) {
	rt, _ := newDevRuntime(t)
	inner := reactive.NewMapFrom(rt, map[string]any{"c": 7})
	m := reactive.NewMapFrom(rt, map[string]any{"b": inner})
	reactive.Observe(rt, m)

	getter, err := reactive.ParsePath("b.c")
	assert.NoError(t, err)
	assert.Equal(t, 7, getter(m))

	missing, err := reactive.ParsePath("b.zzz.deep")
	assert.NoError(t, err)
	assert.Nil(t, missing(m))
}

// bracket syntax should be rejected
func TestParsePathRejectsBrackets(t *testing.T) {
	_, err := reactive.ParsePath("items[0].name")
	assert.Error(t, err)
}
