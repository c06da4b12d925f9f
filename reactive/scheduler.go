package reactive

import (
	"fmt"
	"sort"
)

const defaultMaxUpdateCount = 100

// Activatable is queued during patch insert hooks and drained after the
// flush, child before parent.
type Activatable interface {
	CallActivatedHook()
}

// queueWatcher enqueues a dirtied watcher for the next flush. A watcher
// already queued is not queued twice; one queued during the flush itself
// is spliced in so ascending-id order still holds.
func (rt *Runtime) queueWatcher(w *Watcher) {
	if rt.has.Contains(w.id) {
		return
	}
	rt.has.Add(w.id)
	if !rt.flushing {
		rt.queue = append(rt.queue, w)
	} else {
		i := len(rt.queue) - 1
		for i > rt.index && rt.queue[i].id > w.id {
			i--
		}
		rt.queue = append(rt.queue, nil)
		copy(rt.queue[i+2:], rt.queue[i+1:])
		rt.queue[i+1] = w
	}
	rt.scheduleFlush()
}

// QueueActivated records a component reactivated during patch.
func (rt *Runtime) QueueActivated(a Activatable) {
	rt.activatedChildren = append(rt.activatedChildren, a)
}

// flushSchedulerQueue runs queued watchers in ascending-id order:
// parents before children, user watchers before their instance's render
// watcher. The queue may grow mid-flush from run side-effects.
func (rt *Runtime) flushSchedulerQueue() {
	rt.waiting = false
	if len(rt.queue) == 0 && len(rt.activatedChildren) == 0 {
		return
	}
	rt.flushing = true
	maxUpdate := rt.cfg.MaxUpdateCount
	if maxUpdate == 0 {
		maxUpdate = defaultMaxUpdateCount
	}

	sort.Slice(rt.queue, func(i, j int) bool { return rt.queue[i].id < rt.queue[j].id })

	for rt.index = 0; rt.index < len(rt.queue); rt.index++ {
		w := rt.queue[rt.index]
		if w.before != nil {
			w.before()
		}
		id := w.id
		rt.has.Remove(id)
		w.run()
		if rt.cfg.Dev && rt.has.Contains(id) {
			rt.circular[id]++
			if rt.circular[id] > maxUpdate {
				rt.Warn(fmt.Sprintf(
					"infinite update loop detected in watcher with expression %q", w.expression), w)
				break
			}
		}
	}

	updatedQueue := make([]*Watcher, len(rt.queue))
	copy(updatedQueue, rt.queue)
	activatedQueue := make([]Activatable, len(rt.activatedChildren))
	copy(activatedQueue, rt.activatedChildren)

	rt.resetSchedulerState()

	callActivatedHooks(activatedQueue)
	callUpdatedHooks(updatedQueue)
}

func (rt *Runtime) resetSchedulerState() {
	rt.queue = rt.queue[:0]
	rt.activatedChildren = rt.activatedChildren[:0]
	rt.has.Clear()
	if rt.cfg.Dev {
		rt.circular = map[uint64]int{}
	}
	rt.waiting = false
	rt.flushing = false
	rt.index = 0
}

func callActivatedHooks(queue []Activatable) {
	for _, a := range queue {
		a.CallActivatedHook()
	}
}

// updated hooks fire in reverse order so a child's updated precedes its
// parent's.
func callUpdatedHooks(queue []*Watcher) {
	for i := len(queue) - 1; i >= 0; i-- {
		w := queue[i]
		if w.active && w.onUpdated != nil {
			w.onUpdated()
		}
	}
}
