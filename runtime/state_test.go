package runtime_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/renderparty/runtime"
)

// a data write should fire a path watcher exactly once per flush, with
// the new and old values; writing the same value again fires nothing
func TestWatchFiresOncePerChange(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"a": 1}),
	})

	var calls [][2]any
	_, err := c.Watch("a", func(c *runtime.Component, newVal, oldVal any) error {
		calls = append(calls, [2]any{newVal, oldVal})
		return nil
	}, nil)
	require.NoError(t, err)

	c.Set("a", 2)
	env.app.Flush()
	require.Len(t, calls, 1)
	assert.Equal(t, [2]any{2, 1}, calls[0])

	c.Set("a", 2)
	env.app.Flush()
	assert.Len(t, calls, 1)
}

// two writes in one tick should coalesce into a single callback run
func TestWatchCoalescesWithinTick(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"n": 0}),
	})

	var calls [][2]any
	_, err := c.Watch("n", func(c *runtime.Component, newVal, oldVal any) error {
		calls = append(calls, [2]any{newVal, oldVal})
		return nil
	}, nil)
	require.NoError(t, err)

	c.Set("n", 1)
	c.Set("n", 2)
	env.app.Flush()
	require.Len(t, calls, 1)
	assert.Equal(t, [2]any{2, 0}, calls[0])
}

// an immediate watcher fires synchronously with the current value
func TestWatchImmediate(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"a": 7}),
	})

	var calls [][2]any
	_, err := c.Watch("a", func(c *runtime.Component, newVal, oldVal any) error {
		calls = append(calls, [2]any{newVal, oldVal})
		return nil
	}, &runtime.WatchOptions{Immediate: true})
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, [2]any{7, nil}, calls[0])
}

// tearing a watcher down stops further callbacks
func TestWatchTeardown(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"a": 1}),
	})

	count := 0
	stop, err := c.Watch("a", func(c *runtime.Component, newVal, oldVal any) error {
		count++
		return nil
	}, nil)
	require.NoError(t, err)

	c.Set("a", 2)
	env.app.Flush()
	require.Equal(t, 1, count)

	stop()
	c.Set("a", 3)
	env.app.Flush()
	assert.Equal(t, 1, count)
}

// a computed evaluates lazily on first read and recomputes only after a
// dependency changed
func TestComputedCachesUntilDirty(t *testing.T) {
	env := newTestEnv()
	evals := 0
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"a": 1}),
		Computed: map[string]any{
			"double": func(c *runtime.Component) any {
				evals++
				return c.Get("a").(int) * 2
			},
		},
	})

	assert.Equal(t, 2, c.Get("double"))
	assert.Equal(t, 2, c.Get("double"))
	assert.Equal(t, 1, evals)

	c.Set("a", 6)
	assert.Equal(t, 12, c.Get("double"))
	assert.Equal(t, 12, c.Get("double"))
	assert.Equal(t, 2, evals)
}

// a computed setter routes writes back to its sources
func TestComputedSetter(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"a": 1}),
		Computed: map[string]any{
			"double": &runtime.ComputedAccessor{
				Get: func(c *runtime.Component) any { return c.Get("a").(int) * 2 },
				Set: func(c *runtime.Component, v any) { c.Set("a", v.(int)/2) },
			},
		},
	})

	c.Set("double", 10)
	assert.Equal(t, 5, c.Get("a"))
	assert.Equal(t, 10, c.Get("double"))
}

// a render reading a computed re-runs when the computed's source changes
func TestComputedDrivesRender(t *testing.T) {
	env := newTestEnv()
	c := env.mount(&runtime.Options{
		Data: dataOf(map[string]any{"a": 2}),
		Computed: map[string]any{
			"label": func(c *runtime.Component) any {
				return strconv.Itoa(c.Get("a").(int) * 10)
			},
		},
		Render: func(c *runtime.Component) any {
			return c.H("div", nil, c.Get("label").(string))
		},
	})

	assert.Equal(t, "<div>20</div>", html(c))
	c.Set("a", 3)
	env.app.Flush()
	assert.Equal(t, "<div>30</div>", html(c))
}

// methods are bound to their instance and reachable through Get and Call
func TestMethodsCallable(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"n": 40}),
		Methods: map[string]runtime.Method{
			"add": func(c *runtime.Component, args ...any) any {
				return c.Get("n").(int) + args[0].(int)
			},
		},
	})

	assert.Equal(t, 42, c.Call("add", 2))
	bound := c.Get("add").(func(args ...any) any)
	assert.Equal(t, 45, bound(5))
}

// a string watch handler resolves to the named method
func TestWatchHandlerByMethodName(t *testing.T) {
	env := newTestEnv()
	var seen []any
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"a": 1}),
		Methods: map[string]runtime.Method{
			"onChange": func(c *runtime.Component, args ...any) any {
				seen = append(seen, args[0])
				return nil
			},
		},
		Watch: map[string]any{"a": "onChange"},
	})

	c.Set("a", 9)
	env.app.Flush()
	require.Len(t, seen, 1)
	assert.Equal(t, 9, seen[0])
}

// declared props resolve from passed values, defaults and factories
func TestPropDefaults(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Props: map[string]*runtime.PropOptions{
			"given":   {},
			"missing": {Default: "fallback"},
			"made":    {Default: func() any { return []int{1, 2} }},
		},
		PropsData: map[string]any{"given": "here"},
	})

	assert.Equal(t, "here", c.Get("given"))
	assert.Equal(t, "fallback", c.Get("missing"))
	assert.Equal(t, []int{1, 2}, c.Get("made"))
}

// required and type-mismatched props warn in dev
func TestPropValidationWarns(t *testing.T) {
	env := newTestEnv()
	env.app.New(&runtime.Options{
		Props: map[string]*runtime.PropOptions{
			"count": {Type: []runtime.PropType{runtime.PropNumber}},
			"must":  {Required: true},
		},
		PropsData: map[string]any{"count": "nope"},
	})

	require.Len(t, env.warnings, 2)
	all := strings.Join(env.warnings, "\n")
	assert.Contains(t, all, `missing required prop "must"`)
	assert.Contains(t, all, `invalid prop "count"`)
}

// a custom validator failure warns but keeps the value
func TestPropValidator(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Props: map[string]*runtime.PropOptions{
			"pct": {Validator: func(v any) bool { n, _ := v.(int); return n >= 0 && n <= 100 }},
		},
		PropsData: map[string]any{"pct": 150},
	})

	assert.Equal(t, 150, c.Get("pct"))
	require.Len(t, env.warnings, 1)
	assert.Contains(t, env.warnings[0], "custom validator check failed")
}

// adding an undeclared key to root data is rejected with a warning
func TestRootDataKeyGuard(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Data: dataOf(map[string]any{"a": 1}),
	})

	c.Set("b", 2)
	assert.Nil(t, c.Get("b"))
	require.NotEmpty(t, env.warnings)
	assert.Contains(t, env.warnings[0], "avoid adding reactive keys")
}
