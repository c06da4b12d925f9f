package reactive

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Getter produces the value a Watcher tracks; reactive reads inside it
// subscribe the watcher.
type Getter func() any

// Callback fires when the tracked value changes.
type Callback func(newVal, oldVal any) error

// Owner lets a watcher detach itself from whatever component or scope
// allocated it.
type Owner interface {
	IsBeingDestroyed() bool
	RemoveWatcher(*Watcher)
}

type WatcherOptions struct {
	// Lazy watchers (computeds) evaluate on demand instead of on notify.
	Lazy bool
	// Sync watchers run on notify, bypassing the scheduler.
	Sync bool
	// User marks watchers created through the public watch surface.
	User bool
	// Deep registers dependencies on every nested value of the result.
	Deep bool
	// Before runs immediately before a scheduled run.
	Before func()
	// OnUpdated runs after a flush in which this watcher ran.
	OnUpdated func()
	// Expression is used in warnings only.
	Expression string
}

// Watcher subscribes a getter to every Dep it reads. Two dep generations
// are kept: the current one and the one under construction during get;
// cleanupDeps drops subscriptions the latest evaluation no longer needs.
type Watcher struct {
	rt    *Runtime
	owner Owner
	id    uint64

	getter Getter
	cb     Callback
	value  any

	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]

	lazy   bool
	sync   bool
	user   bool
	deep   bool
	active bool
	dirty  bool

	before     func()
	onUpdated  func()
	expression string
}

func NewWatcher(rt *Runtime, owner Owner, getter Getter, cb Callback, opts *WatcherOptions) *Watcher {
	if opts == nil {
		opts = &WatcherOptions{}
	}
	w := &Watcher{
		rt:         rt,
		owner:      owner,
		id:         rt.nextWatcherID(),
		getter:     getter,
		cb:         cb,
		depIDs:     mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs:  mapset.NewThreadUnsafeSet[uint64](),
		lazy:       opts.Lazy,
		sync:       opts.Sync,
		user:       opts.User,
		deep:       opts.Deep,
		active:     true,
		dirty:      opts.Lazy,
		before:     opts.Before,
		onUpdated:  opts.OnUpdated,
		expression: opts.Expression,
	}
	if !w.lazy {
		w.value = w.get()
	}
	return w
}

func (w *Watcher) ID() uint64     { return w.id }
func (w *Watcher) Value() any     { return w.value }
func (w *Watcher) IsDirty() bool  { return w.dirty }
func (w *Watcher) IsActive() bool { return w.active }
func (w *Watcher) DepCount() int  { return len(w.deps) }

// get re-evaluates the getter with this watcher as the collection target.
// The target stack and dep generations are restored on every exit path.
func (w *Watcher) get() any {
	w.rt.PushTarget(w)
	defer func() {
		w.rt.PopTarget()
		w.cleanupDeps()
	}()
	value := w.getter()
	if w.deep {
		Traverse(value)
	}
	return value
}

// addDep records d in the generation under construction and subscribes
// when this is a genuinely new dependency.
func (w *Watcher) addDep(d *Dep) {
	if w.newDepIDs.Contains(d.id) {
		return
	}
	w.newDepIDs.Add(d.id)
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(d.id) {
		d.addSub(w)
	}
}

// cleanupDeps unsubscribes from Deps the latest get did not touch, then
// swaps generations. The scratch generation ends empty.
func (w *Watcher) cleanupDeps() {
	for _, dep := range w.deps {
		if !w.newDepIDs.Contains(dep.id) {
			dep.removeSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
}

// Update is called by a Dep on notify, and by hosts forcing a re-run.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.run()
	default:
		w.rt.queueWatcher(w)
	}
}

// run re-evaluates and fires the callback when the value changed. For
// containers and deep watchers the callback always fires, since mutation
// leaves the reference equal.
func (w *Watcher) run() {
	if !w.active {
		return
	}
	value := w.get()
	if looseEqual(value, w.value) && !IsContainer(value) && !w.deep {
		return
	}
	oldValue := w.value
	w.value = value
	if w.cb == nil {
		return
	}
	if err := w.cb(value, oldValue); err != nil {
		if w.user {
			w.rt.HandleError(w, fmt.Errorf("watcher callback for %q: %w", w.expression, err))
		} else {
			w.rt.HandleError(w, err)
		}
	}
}

// Evaluate computes a lazy watcher's value on demand.
func (w *Watcher) Evaluate() {
	w.value = w.get()
	w.dirty = false
}

// Depend forwards every current Dep to the enclosing target. This is how
// a computed exposes its inputs to the watcher reading it.
func (w *Watcher) Depend() {
	for _, dep := range w.deps {
		dep.Depend()
	}
}

// Teardown unsubscribes from all Deps and detaches from the owner.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	if w.owner != nil && !w.owner.IsBeingDestroyed() {
		w.owner.RemoveWatcher(w)
	}
	for _, dep := range w.deps {
		dep.removeSub(w)
	}
	w.active = false
}
