// Package registry keeps the saved shortcut registered against the host:
// one system-wide interceptor for "works while unfocused", one in-process
// interceptor for "works while focused", both feeding a single tracker so
// a physical press fires the callbacks exactly once no matter how many
// paths observed it.
package registry

import (
	"errors"
	"sync"

	"hark/hotkey"
	"hark/log"
	"hark/permission"
	"hark/tap"
)

// ErrClosed is returned by Register after Close.
var ErrClosed = errors.New("hotkey registry closed")

type event struct {
	gen int
	ev  tap.Event
}

// Registry owns the monitoring pair for one configuration. All state is
// mutated under one mutex; edges are detected and callbacks invoked on a
// single dispatch goroutine, the subsystem's serialization point.
type Registry struct {
	life *tap.Lifecycle

	mu         sync.Mutex
	binding    hotkey.Binding
	registered bool
	onPressed  func()
	onReleased func()
	global     *tap.Handle
	local      *tap.Handle
	tracker    *hotkey.Tracker
	gen        int
	active     bool
	reason     string
	closed     bool

	observers map[int]func(hotkey.Binding)
	nextObs   int

	events chan event
	quit   chan struct{}
}

// New builds a registry over the lifecycle and starts its dispatch
// goroutine. Callers own exactly one registry per logical shortcut set.
func New(life *tap.Lifecycle) *Registry {
	r := &Registry{
		life:   life,
		events: make(chan event, 128),
		quit:   make(chan struct{}),
	}
	go r.dispatch()
	return r
}

// Register installs monitors for the binding, tearing down any prior pair
// first. A denied system-wide permission is not an error: the in-process
// interceptor still runs, Active reports false with a reason, and a later
// PermissionChanged retries. The returned error covers only malformed
// bindings and use after Close.
func (r *Registry) Register(b hotkey.Binding, onPressed, onReleased func()) error {
	if err := b.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	// Stop-before-start: the old pair is gone before the new generation
	// exists, and stale events are fenced off by the generation stamp.
	r.stopMonitorsLocked()
	r.gen++
	gen := r.gen
	r.binding = b
	r.registered = true
	r.onPressed = onPressed
	r.onReleased = onReleased
	r.tracker = hotkey.NewTracker(b)
	r.mu.Unlock()

	handler := func(ev tap.Event) bool {
		r.enqueue(gen, ev)
		return false // monitoring observes; it never swallows input
	}

	local, err := r.life.Start(tap.InProcess, handler)
	if err != nil {
		// The in-process scope has no permission gate; failure here is a
		// programming error worth surfacing.
		return err
	}

	global, gerr := r.life.Start(tap.SystemWide, handler)

	r.mu.Lock()
	r.local = local
	r.global = global
	switch {
	case gerr == nil:
		r.active = true
		r.reason = ""
	case errors.Is(gerr, permission.ErrDenied):
		r.active = false
		r.reason = gerr.Error()
	default:
		r.active = false
		r.reason = gerr.Error()
	}
	active, reason := r.active, r.reason
	r.mu.Unlock()

	log.Registered(b.Spec(), active, reason)
	r.notify(b)
	return nil
}

// Update re-registers with a new binding and the callbacks from the last
// Register. The old monitors are always torn down before the new value
// takes effect.
func (r *Registry) Update(b hotkey.Binding) error {
	r.mu.Lock()
	onPressed, onReleased := r.onPressed, r.onReleased
	r.mu.Unlock()
	return r.Register(b, onPressed, onReleased)
}

// PermissionChanged re-attempts registration with the last-known
// configuration. Wired to the host's permission-changed signal; the
// registry never retries on its own timer.
func (r *Registry) PermissionChanged() {
	r.mu.Lock()
	if !r.registered || r.closed {
		r.mu.Unlock()
		return
	}
	b := r.binding
	onPressed, onReleased := r.onPressed, r.onReleased
	r.mu.Unlock()

	if err := r.Register(b, onPressed, onReleased); err != nil {
		log.Errorf("permission retry failed: %v", err)
		return
	}
	active, _ := r.Active()
	log.PermissionRetry(b.Spec(), active)
}

// Active reports whether both interceptors are installed, with a
// human-readable reason when they are not. Status surfaces read this;
// they never mutate it.
func (r *Registry) Active() (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.reason
}

// Binding returns the currently registered configuration.
func (r *Registry) Binding() hotkey.Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.binding
}

// Subscribe adds an observer for configuration changes. Subscribers must
// call the returned cancel on teardown so no dangling callback outlives
// its owner.
func (r *Registry) Subscribe(fn func(hotkey.Binding)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.observers == nil {
		r.observers = make(map[int]func(hotkey.Binding))
	}
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

// Close tears down the monitors and the dispatch goroutine.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.registered = false
	r.active = false
	r.stopMonitorsLocked()
	r.gen++
	r.mu.Unlock()
	// The event channel is never closed: a handler that passed enqueue's
	// guard just before Close may still send. The dispatch goroutine exits
	// through quit instead, and stragglers sit in the buffer unread.
	close(r.quit)
}

func (r *Registry) stopMonitorsLocked() {
	if r.global != nil {
		r.life.Stop(r.global)
		r.global = nil
	}
	if r.local != nil {
		r.life.Stop(r.local)
		r.local = nil
	}
}

func (r *Registry) notify(b hotkey.Binding) {
	r.mu.Lock()
	fns := make([]func(hotkey.Binding), 0, len(r.observers))
	for _, fn := range r.observers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()
	for _, fn := range fns {
		fn(b)
	}
}

// enqueue hands an event to the dispatch goroutine. The hot path never
// blocks; under pathological backlog the event is dropped, which costs at
// worst one edge, never a wedged input pipeline.
func (r *Registry) enqueue(gen int, ev tap.Event) {
	r.mu.Lock()
	if r.closed || gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	select {
	case r.events <- event{gen: gen, ev: ev}:
	default:
	}
}

// dispatch is the single goroutine where edges are detected and callbacks
// run. Both interceptors feed it, and the shared tracker holds per-press
// state, so a press seen by both paths still fires each callback once.
func (r *Registry) dispatch() {
	for {
		var e event
		select {
		case <-r.quit:
			return
		case e = <-r.events:
		}

		r.mu.Lock()
		if e.gen != r.gen || r.tracker == nil {
			r.mu.Unlock()
			continue
		}
		edge := r.tracker.Feed(e.ev)
		onPressed, onReleased := r.onPressed, r.onReleased
		b := r.binding
		r.mu.Unlock()

		switch edge {
		case hotkey.EdgePressed:
			log.Infof("hotkey pressed: %s", b.Spec())
			if onPressed != nil {
				onPressed()
			}
		case hotkey.EdgeReleased:
			if onReleased != nil {
				onReleased()
			}
		}
	}
}
