package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/renderparty/runtime"
)

// mixin hooks run before the component's own, in mixin order
func TestMixinHookOrder(t *testing.T) {
	env := newTestEnv()
	var log []string
	env.app.New(&runtime.Options{
		Mixins: []*runtime.Options{
			{Created: []runtime.Hook{hookRecorder(&log, "mixin one")}},
			{Created: []runtime.Hook{hookRecorder(&log, "mixin two")}},
		},
		Created: []runtime.Hook{hookRecorder(&log, "own")},
	})

	assert.Equal(t, []string{"mixin one", "mixin two", "own"}, log)
}

// mixin data fills gaps; the component's own keys win on collision
func TestMixinDataMerge(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		Mixins: []*runtime.Options{
			{Data: dataOf(map[string]any{"a": "mixin", "b": "mixin"})},
		},
		Data: dataOf(map[string]any{"b": "own", "c": "own"}),
	})

	assert.Equal(t, "mixin", c.Get("a"))
	assert.Equal(t, "own", c.Get("b"))
	assert.Equal(t, "own", c.Get("c"))
}

// extends behaves like a lower-priority mixin applied first
func TestExtendsMerge(t *testing.T) {
	env := newTestEnv()
	var log []string
	c := env.app.New(&runtime.Options{
		Extends: &runtime.Options{
			Data:    dataOf(map[string]any{"base": true}),
			Created: []runtime.Hook{hookRecorder(&log, "base")},
			Methods: map[string]runtime.Method{
				"hello": func(c *runtime.Component, args ...any) any { return "base" },
			},
		},
		Created: []runtime.Hook{hookRecorder(&log, "own")},
		Methods: map[string]runtime.Method{
			"hello": func(c *runtime.Component, args ...any) any { return "own" },
		},
	})

	assert.Equal(t, []string{"base", "own"}, log)
	assert.Equal(t, true, c.Get("base"))
	assert.Equal(t, "own", c.Call("hello"))
}

// a mixin applied twice contributes its hooks once
func TestDuplicateMixinDeduped(t *testing.T) {
	env := newTestEnv()
	var log []string
	shared := &runtime.Options{
		Created: []runtime.Hook{hookRecorder(&log, "shared")},
	}
	env.app.New(&runtime.Options{
		Mixins: []*runtime.Options{shared, shared},
	})

	assert.Equal(t, []string{"shared"}, log)
}

// watch handlers from mixins and the component all fire, mixin first
func TestWatchHandlersConcatenate(t *testing.T) {
	env := newTestEnv()
	var log []string
	c := env.app.New(&runtime.Options{
		Mixins: []*runtime.Options{
			{Watch: map[string]any{
				"a": runtime.WatchCallback(func(c *runtime.Component, newVal, oldVal any) error {
					log = append(log, "mixin")
					return nil
				}),
			}},
		},
		Data: dataOf(map[string]any{"a": 1}),
		Watch: map[string]any{
			"a": runtime.WatchCallback(func(c *runtime.Component, newVal, oldVal any) error {
				log = append(log, "own")
				return nil
			}),
		},
	})

	c.Set("a", 2)
	env.app.Flush()
	assert.Equal(t, []string{"mixin", "own"}, log)
}

// the shorthand prop name list normalizes to full prop options
func TestPropNamesShorthand(t *testing.T) {
	env := newTestEnv()
	c := env.app.New(&runtime.Options{
		PropNames: []string{"alpha", "beta"},
		PropsData: map[string]any{"alpha": 1, "beta": 2},
	})

	assert.Equal(t, 1, c.Get("alpha"))
	assert.Equal(t, 2, c.Get("beta"))
}

// invalid component names are rejected at registration
func TestComponentNameValidation(t *testing.T) {
	env := newTestEnv()
	env.app.RegisterComponent("div", &runtime.Options{})
	env.app.RegisterComponent("1bad", &runtime.Options{})
	env.app.RegisterComponent("fine-name", &runtime.Options{})

	require.Len(t, env.warnings, 2)
	assert.Contains(t, env.warnings[0], "reserved HTML or SVG element")
	assert.Contains(t, env.warnings[1], "invalid component name")
}

// locally registered components shadow global ones of the same name
func TestLocalComponentShadowsGlobal(t *testing.T) {
	env := newTestEnv()
	env.app.RegisterComponent("leaf", &runtime.Options{
		Render: func(c *runtime.Component) any { return c.H("i", nil, "global") },
	})
	root := env.mount(&runtime.Options{
		Components: map[string]any{
			"leaf": &runtime.Options{
				Render: func(c *runtime.Component) any { return c.H("em", nil, "local") },
			},
		},
		Render: func(c *runtime.Component) any {
			return c.H("div", nil, c.H("leaf", nil))
		},
	})

	assert.Equal(t, "<div><em>local</em></div>", html(root))
}

// component lookup tries the literal id, camelCase and PascalCase
func TestAssetNameCasing(t *testing.T) {
	env := newTestEnv()
	env.app.RegisterComponent("MyLeaf", &runtime.Options{
		Render: func(c *runtime.Component) any { return c.H("i", nil, "found") },
	})
	root := env.mount(&runtime.Options{
		Render: func(c *runtime.Component) any {
			return c.H("div", nil, c.H("my-leaf", nil))
		},
	})

	assert.Equal(t, "<div><i>found</i></div>", html(root))
}

// filters resolve through the same chain with a dev warning on miss
func TestFilterResolution(t *testing.T) {
	env := newTestEnv()
	env.app.RegisterFilter("shout", func(s string) string { return s + "!" })
	c := env.app.New(&runtime.Options{})

	f, ok := c.Filter("shout").(func(string) string)
	require.True(t, ok)
	assert.Equal(t, "hey!", f("hey"))

	assert.Nil(t, c.Filter("missing"))
	require.NotEmpty(t, env.warnings)
	assert.Contains(t, env.warnings[0], `failed to resolve filter "missing"`)
}
