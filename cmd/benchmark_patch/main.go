package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/delaneyj/renderparty/memdom"
	"github.com/delaneyj/renderparty/vdom"
)

// Each scenario mounts a keyed list, permutes it, and reports how many
// primitive document operations the diff spent. Moves should dominate
// for reorders; creates and removes mean the keyed path gave up.
type scenario struct {
	name    string
	permute func(keys []string) []string
}

var scenarios = []scenario{
	{
		name: "reverse",
		permute: func(keys []string) []string {
			out := make([]string, len(keys))
			for i, k := range keys {
				out[len(keys)-1-i] = k
			}
			return out
		},
	},
	{
		name: "swap ends",
		permute: func(keys []string) []string {
			out := append([]string(nil), keys...)
			out[0], out[len(out)-1] = out[len(out)-1], out[0]
			return out
		},
	},
	{
		name: "rotate one",
		permute: func(keys []string) []string {
			out := append([]string(nil), keys[1:]...)
			return append(out, keys[0])
		},
	},
	{
		name: "shuffle",
		permute: func(keys []string) []string {
			out := append([]string(nil), keys...)
			rng := rand.New(rand.NewSource(42))
			rng.Shuffle(len(out), func(i, j int) {
				out[i], out[j] = out[j], out[i]
			})
			return out
		},
	},
	{
		name: "drop every third",
		permute: func(keys []string) []string {
			out := make([]string, 0, len(keys))
			for i, k := range keys {
				if i%3 != 0 {
					out = append(out, k)
				}
			}
			return out
		},
	},
	{
		name: "prepend tenth",
		permute: func(keys []string) []string {
			extra := make([]string, 0, len(keys)/10+len(keys))
			for i := 0; i < len(keys)/10+1; i++ {
				extra = append(extra, fmt.Sprintf("new%d", i))
			}
			return append(extra, keys...)
		},
	},
}

var sizes = []int{10, 100, 1_000, 10_000}

func main() {
	log.Print("Starting patch op-count benchmark, please wait...")
	defer log.Print("Finished patch op-count benchmark")

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"scenario", "rows", "creates", "inserts", "removes", "moves",
		"textSets", "time",
	})

	for _, sc := range scenarios {
		for _, n := range sizes {
			doc := memdom.NewDocument()
			patch := vdom.NewPatcher(doc, nil, func(msg string) {
				log.Print(msg)
			})

			keys := make([]string, n)
			for i := range keys {
				keys[i] = fmt.Sprintf("row%d", i)
			}
			old := list(keys)
			patch(nil, old, false)

			next := list(sc.permute(keys))
			doc.ResetCounters()
			start := time.Now()
			patch(old, next, false)
			elapsed := time.Since(start)

			tbl.Append([]string{
				sc.name,
				humanize.Comma(int64(n)),
				humanize.Comma(int64(doc.Creates)),
				humanize.Comma(int64(doc.Inserts)),
				humanize.Comma(int64(doc.Removes)),
				humanize.Comma(int64(doc.Moves)),
				humanize.Comma(int64(doc.TextSets)),
				fmt.Sprint(elapsed),
			})
		}
	}

	tbl.Render()
}

func list(keys []string) *vdom.VNode {
	children := make([]any, len(keys))
	for i, k := range keys {
		children[i] = vdom.H("li", &vdom.VNodeData{Key: k}, k)
	}
	return vdom.H("ul", nil, children...)
}
