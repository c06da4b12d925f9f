package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Traverse reads every nested value of val so a deep watcher registers on
// all of them. Cycles are tolerated via a seen set keyed by observer Dep
// id.
func Traverse(val any) {
	seen := mapset.NewThreadUnsafeSet[uint64]()
	traverse(val, seen)
}

func traverse(val any, seen mapset.Set[uint64]) {
	if ob := observerOf(val); ob != nil {
		if seen.Contains(ob.dep.id) {
			return
		}
		seen.Add(ob.dep.id)
	}
	switch v := val.(type) {
	case *Map:
		for _, key := range v.Keys() {
			traverse(v.Get(key), seen)
		}
	case *Slice:
		for i := 0; i < len(v.items); i++ {
			traverse(v.Index(i), seen)
		}
	}
}
