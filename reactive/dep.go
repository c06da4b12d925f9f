package reactive

import "sort"

// Dep is the subscription broker for a single reactive quantity: one per
// observed container (structural changes) and one per map key.
type Dep struct {
	rt   *Runtime
	id   uint64
	subs []*Watcher
}

func newDep(rt *Runtime) *Dep {
	return &Dep{rt: rt, id: rt.nextDepID()}
}

func (d *Dep) ID() uint64 { return d.id }

func (d *Dep) addSub(w *Watcher) {
	d.subs = append(d.subs, w)
}

func (d *Dep) removeSub(w *Watcher) {
	for i, sub := range d.subs {
		if sub == w {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Depend registers the runtime's current target watcher as a subscriber.
func (d *Dep) Depend() {
	if t := d.rt.target; t != nil {
		t.addDep(d)
	}
}

// Notify wakes every subscriber. The subscriber list is snapshotted so
// watchers may unsubscribe mid-iteration.
func (d *Dep) Notify() {
	subs := make([]*Watcher, len(d.subs))
	copy(subs, d.subs)
	if d.rt.cfg.Dev {
		// subs aren't sorted when the scheduler is bypassed; sort here so
		// sync watchers fire in declaration order and ordering bugs surface.
		sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	}
	for _, sub := range subs {
		sub.Update()
	}
}
