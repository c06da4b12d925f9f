package runtime_test

import (
	"github.com/delaneyj/renderparty/memdom"
	"github.com/delaneyj/renderparty/reactive"
	"github.com/delaneyj/renderparty/runtime"
)

type testEnv struct {
	rt       *reactive.Runtime
	doc      *memdom.Document
	app      *runtime.App
	warnings []string
	errors   []error
}

func newTestEnv() *testEnv {
	env := &testEnv{doc: memdom.NewDocument()}
	env.rt = reactive.NewRuntime(reactive.Config{
		Dev: true,
		WarnHandler: func(msg string, from any) {
			env.warnings = append(env.warnings, msg)
		},
		OnError: func(from any, err error) {
			env.errors = append(env.errors, err)
		},
	})
	env.app = runtime.NewApp(env.rt, env.doc)
	return env
}

func (env *testEnv) mount(opts *runtime.Options) *runtime.Component {
	c := env.app.New(opts)
	c.Mount(nil)
	return c
}

func html(c *runtime.Component) string {
	return c.El().(*memdom.Node).HTML()
}

func dataOf(values map[string]any) runtime.DataFunc {
	return func(c *runtime.Component) *reactive.Map {
		m := reactive.NewMap(c.App().Runtime())
		for k, v := range values {
			m.Set(k, v)
		}
		return m
	}
}
