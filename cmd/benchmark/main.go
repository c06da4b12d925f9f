package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/delaneyj/renderparty/memdom"
	"github.com/delaneyj/renderparty/reactive"
	"github.com/delaneyj/renderparty/runtime"
	"github.com/delaneyj/renderparty/vdom"
)

func main() {
	flag.Parse()

	f, err := os.Create("default.pgo")
	if err != nil {
		log.Fatal(err)
	}
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	log.Printf("warming up")

	benchmarkPropagation(true)
	benchmarkRender(true)
}

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100, 1_000}
	rows  = []int{1, 10, 100, 1_000}
	iters = 100
)

// benchmarkPropagation drives w parallel chains of h dependent watchers
// off a single source key and measures one write plus the flush that
// carries it to every chain tail.
func benchmarkPropagation(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Watcher Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rt := reactive.NewRuntime(reactive.Config{})
			state := reactive.NewMap(rt)
			state.Set("src", 1)
			for i := 0; i < w; i++ {
				prev := "src"
				for j := 0; j < h; j++ {
					key := fmt.Sprintf("c%d_%d", i, j)
					state.Set(key, 0)
					from, to := prev, key
					reactive.NewWatcher(rt, nil, func() any {
						return state.Get(from).(int) + 1
					}, func(newVal, oldVal any) error {
						state.Set(to, newVal.(int))
						return nil
					}, nil)
					prev = key
				}
				tail := prev
				reactive.NewWatcher(rt, nil, func() any {
					return state.Get(tail)
				}, func(newVal, oldVal any) error {
					return nil
				}, nil)
			}
			rt.Flush()

			for i := 0; i < iters; i++ {
				start := time.Now()
				state.Set("src", state.Get("src").(int)+1)
				rt.Flush()
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkRender mounts a keyed list of child components against the
// in-memory document and measures one state write plus the re-render
// and patch it schedules.
func benchmarkRender(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Component Render")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, n := range rows {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		rt := reactive.NewRuntime(reactive.Config{Silent: true})
		doc := memdom.NewDocument()
		app := runtime.NewApp(rt, doc)
		app.RegisterComponent("row", &runtime.Options{
			PropNames: []string{"label"},
			Render: func(c *runtime.Component) any {
				return c.H("li", nil, c.Get("label").(string))
			},
		})

		count := n
		root := app.New(&runtime.Options{
			Data: func(c *runtime.Component) *reactive.Map {
				return reactive.NewMapFrom(rt, map[string]any{"tick": 0})
			},
			Render: func(c *runtime.Component) any {
				tick := c.Get("tick").(int)
				children := make([]any, 0, count)
				for i := 0; i < count; i++ {
					children = append(children, c.H("row", &vdom.VNodeData{
						Key:   i,
						Attrs: map[string]any{"label": strconv.Itoa(i + tick)},
					}))
				}
				return c.H("ul", nil, children...)
			},
		})
		root.Mount(nil)
		app.Flush()

		for i := 0; i < iters; i++ {
			start := time.Now()
			root.Set("tick", root.Get("tick").(int)+1)
			app.Flush()
			tach.AddTime(time.Since(start))
		}
		root.Destroy()

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("update: %d rows", n),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}
