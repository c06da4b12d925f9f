package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// OnErrorFunc receives errors raised by user callbacks that nothing
// upstream handled.
type OnErrorFunc func(from any, err error)

// WarnFunc receives development-time warnings.
type WarnFunc func(msg string, from any)

type Config struct {
	// Dev enables development-time assertions and warnings.
	Dev bool
	// Silent suppresses warnings entirely.
	Silent bool
	// WarnHandler receives warnings; with no handler set they are dropped.
	WarnHandler WarnFunc
	// OnError receives errors from user callbacks.
	OnError OnErrorFunc
	// ScheduleTick, when set, is called with a drain function the first
	// time work is queued in a tick. The host event loop decides when to
	// call it. When nil, pending work accumulates until Flush.
	ScheduleTick func(flush func())
	// MaxUpdateCount is the circular-update threshold per flush.
	// Zero means the default of 100.
	MaxUpdateCount int
}

// Runtime owns all shared reactivity state. There are no package-level
// globals; every Dep, Watcher and Observer carries its Runtime.
type Runtime struct {
	cfg Config

	depUID     uint64
	watcherUID uint64

	// target stack for nested getter evaluation; the top is the watcher
	// currently collecting dependencies, nil entries suppress capture.
	target      *Watcher
	targetStack []*Watcher

	// scheduler state
	queue             []*Watcher
	has               mapset.Set[uint64]
	circular          map[uint64]int
	waiting           bool
	flushing          bool
	index             int
	activatedChildren []Activatable

	pendingTicks []func()

	warned mapset.Set[uint64]
}

func NewRuntime(cfg Config) *Runtime {
	return &Runtime{
		cfg:      cfg,
		has:      mapset.NewThreadUnsafeSet[uint64](),
		circular: map[uint64]int{},
		warned:   mapset.NewThreadUnsafeSet[uint64](),
	}
}

func (rt *Runtime) Config() Config { return rt.cfg }

func (rt *Runtime) nextDepID() uint64 {
	rt.depUID++
	return rt.depUID
}

func (rt *Runtime) nextWatcherID() uint64 {
	rt.watcherUID++
	return rt.watcherUID
}

// PushTarget makes w the current dependency-collecting watcher. Pass nil
// to suppress collection, as lifecycle hooks and data factories do.
func (rt *Runtime) PushTarget(w *Watcher) {
	rt.targetStack = append(rt.targetStack, w)
	rt.target = w
}

func (rt *Runtime) PopTarget() {
	last := len(rt.targetStack) - 1
	rt.targetStack = rt.targetStack[:last]
	if last == 0 {
		rt.target = nil
	} else {
		rt.target = rt.targetStack[last-1]
	}
}

// Target returns the watcher currently collecting dependencies, if any.
func (rt *Runtime) Target() *Watcher { return rt.target }

func (rt *Runtime) Warn(msg string, from any) {
	if rt.cfg.Silent {
		return
	}
	if rt.cfg.WarnHandler != nil {
		rt.cfg.WarnHandler(msg, from)
	}
}

// WarnOnce emits a warning at most once per key for the lifetime of the
// runtime. Keys are xxhash sums of the message site.
func (rt *Runtime) WarnOnce(key uint64, msg string, from any) {
	if rt.warned.Contains(key) {
		return
	}
	rt.warned.Add(key)
	rt.Warn(msg, from)
}

func (rt *Runtime) HandleError(from any, err error) {
	if rt.cfg.OnError != nil {
		rt.cfg.OnError(from, err)
	}
}

// NextTick defers fn until after the next scheduler flush.
func (rt *Runtime) NextTick(fn func()) {
	rt.pendingTicks = append(rt.pendingTicks, fn)
	rt.scheduleFlush()
}

func (rt *Runtime) scheduleFlush() {
	if rt.waiting {
		return
	}
	rt.waiting = true
	if rt.cfg.ScheduleTick != nil {
		rt.cfg.ScheduleTick(rt.Flush)
	}
}

// Flush runs the scheduler queue and then any NextTick callbacks. Hosts
// without a ScheduleTick hook drive the runtime by calling Flush after
// delivering events.
func (rt *Runtime) Flush() {
	rt.flushSchedulerQueue()
	ticks := rt.pendingTicks
	rt.pendingTicks = nil
	for _, fn := range ticks {
		fn()
	}
}
