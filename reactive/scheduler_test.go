package reactive_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/delaneyj/renderparty/reactive"
	"github.com/stretchr/testify/assert"
)

// writes within one tick should coalesce into a single run
func TestFlushCoalescesWrites(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	runs := 0
	reactive.NewWatcher(rt, nil, func() any {
		runs++
		return m.Get("a")
	}, nil, nil)
	assert.Equal(t, 1, runs)

	m.Set("a", 2)
	m.Set("a", 3)
	m.Set("a", 4)
	assert.Equal(t, 1, runs)

	rt.Flush()
	assert.Equal(t, 2, runs)
	rt.Flush()
	assert.Equal(t, 2, runs)
}

// watchers should flush in ascending id order regardless of dirty order
func TestFlushOrder(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	var order []string
	mk := func(name string) {
		reactive.NewWatcher(rt, nil, func() any {
			return m.Get("a")
		}, func(newVal, oldVal any) error {
			order = append(order, name)
			return nil
		}, nil)
	}
	mk("first")
	mk("second")
	mk("third")

	m.Set("a", 2)
	rt.Flush()
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

// before hooks should fire immediately before each run, updated hooks
// after the flush in reverse order
func TestBeforeAndUpdatedHooks(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	var events []string
	mk := func(name string) {
		reactive.NewWatcher(rt, nil, func() any {
			return m.Get("a")
		}, func(newVal, oldVal any) error {
			events = append(events, name+".run")
			return nil
		}, &reactive.WatcherOptions{
			Before:    func() { events = append(events, name+".before") },
			OnUpdated: func() { events = append(events, name+".updated") },
		})
	}
	mk("parent")
	mk("child")

	m.Set("a", 2)
	rt.Flush()
	assert.Equal(t, []string{
		"parent.before", "parent.run",
		"child.before", "child.run",
		"child.updated", "parent.updated",
	}, events)
}

// a watcher dirtied during the flush by a smaller-id watcher should still
// run within the same flush
func TestMidFlushRequeue(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1, "b": 1})
	reactive.Observe(rt, m)

	reactive.NewWatcher(rt, nil, func() any {
		return m.Get("a")
	}, func(newVal, oldVal any) error {
		m.Set("b", newVal)
		return nil
	}, nil)

	var bSeen []any
	reactive.NewWatcher(rt, nil, func() any {
		return m.Get("b")
	}, func(newVal, oldVal any) error {
		bSeen = append(bSeen, newVal)
		return nil
	}, nil)

	m.Set("a", 9)
	rt.Flush()
	assert.Equal(t, []any{9}, bSeen)
	assert.Equal(t, 9, m.Get("b"))
}

// a callback writing its own dependency should trip the loop guard once
func TestInfiniteUpdateLoopGuard(t *testing.T) {
	warnings := []string{}
	rt := reactive.NewRuntime(reactive.Config{
		Dev: true,
		WarnHandler: func(msg string, from any) {
			warnings = append(warnings, msg)
		},
	})
	m := reactive.NewMapFrom(rt, map[string]any{"n": 0})
	reactive.Observe(rt, m)

	iterations := 0
	reactive.NewWatcher(rt, nil, func() any {
		return m.Get("n")
	}, func(newVal, oldVal any) error {
		iterations++
		m.Set("n", newVal.(int)+1)
		return nil
	}, &reactive.WatcherOptions{Expression: "n"})

	m.Set("n", 1)
	rt.Flush()

	loopWarnings := 0
	for _, w := range warnings {
		if strings.Contains(w, "infinite update loop") {
			loopWarnings++
		}
	}
	assert.Equal(t, 1, loopWarnings)
	assert.Greater(t, iterations, 100)
	assert.LessOrEqual(t, iterations, 102)
}

// sync watchers should bypass the scheduler entirely
func TestSyncBypassesScheduler(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	fired := 0
	reactive.NewWatcher(rt, nil, func() any {
		return m.Get("a")
	}, func(newVal, oldVal any) error {
		fired++
		return nil
	}, &reactive.WatcherOptions{Sync: true})

	m.Set("a", 2)
	assert.Equal(t, 1, fired)
}

// NextTick callbacks should run after the queued watchers
func TestNextTickOrdering(t *testing.T) {
	rt, _ := newDevRuntime(t)
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	var order []string
	reactive.NewWatcher(rt, nil, func() any {
		return m.Get("a")
	}, func(newVal, oldVal any) error {
		order = append(order, "watcher")
		return nil
	}, nil)

	m.Set("a", 2)
	rt.NextTick(func() { order = append(order, "tick") })
	rt.Flush()
	assert.Equal(t, []string{"watcher", "tick"}, order)
}

// ScheduleTick should be invoked once per tick with a working drain
func TestScheduleTickHook(t *testing.T) {
	scheduled := 0
	var drain func()
	rt := reactive.NewRuntime(reactive.Config{
		Dev: true,
		ScheduleTick: func(flush func()) {
			scheduled++
			drain = flush
		},
	})
	m := reactive.NewMapFrom(rt, map[string]any{"a": 1})
	reactive.Observe(rt, m)

	runs := 0
	reactive.NewWatcher(rt, nil, func() any {
		runs++
		return m.Get("a")
	}, nil, nil)

	m.Set("a", 2)
	m.Set("a", 3)
	assert.Equal(t, 1, scheduled)

	drain()
	assert.Equal(t, 2, runs)
}

func ExampleRuntime_Flush() {
	rt := reactive.NewRuntime(reactive.Config{})
	m := reactive.NewMapFrom(rt, map[string]any{"count": 0})
	reactive.Observe(rt, m)

	reactive.NewWatcher(rt, nil, func() any {
		return m.Get("count")
	}, func(newVal, oldVal any) error {
		fmt.Printf("count: %v -> %v\n", oldVal, newVal)
		return nil
	}, nil)

	m.Set("count", 1)
	rt.Flush()
	// Output: count: 0 -> 1
}
